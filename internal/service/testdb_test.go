package service

import (
	"fmt"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的内存sqlite库，表结构与生产迁移保持一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Salt:         "x",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func claimsFor(user *model.User) *util.Claims {
	return &util.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}
}

// seedQuiz 入库一份三题测验：选择题5分、简答题5分、判断题2分，总分12
func seedQuiz(t *testing.T, db *gorm.DB, creatorID uint) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		Title:       "Basic Geography",
		Description: "A short quiz about world geography.",
		Category:    "geography",
		Difficulty:  model.Easy,
		TimeLimit:   15,
		Status:      model.Published,
		Tags:        []string{"geo", "beginner"},
		CreatedBy:   creatorID,
		Questions: []model.Question{
			{
				Type:   model.MultipleChoice,
				Text:   "What is 2 + 2?",
				Points: 5,
				Order:  1,
				Options: []model.Option{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
					{Text: "5"},
					{Text: "22"},
				},
			},
			{
				Type:          model.ShortAnswer,
				Text:          "What is the capital of France?",
				CorrectAnswer: "Paris",
				Points:        5,
				Order:         2,
			},
			{
				Type:   model.TrueFalse,
				Text:   "The Earth is round.",
				Points: 2,
				Order:  3,
				Options: []model.Option{
					{Text: "True", IsCorrect: true},
					{Text: "False"},
				},
			},
		},
	}
	if err := ValidateQuiz(quiz); err != nil {
		t.Fatalf("seed quiz failed validation: %v", err)
	}
	if err := repository.NewQuizRepository(db).Create(quiz); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz
}
