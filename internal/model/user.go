package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Salt         string    `gorm:"size:64;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;default:'student'" json:"role"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	LastLogin    time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
