package model

import "time"

// Attempt 一次答题记录，创建后不可修改
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	QuizID uint  `gorm:"index;type:bigint unsigned" json:"quizId"`
	Quiz   *Quiz `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	UserID uint  `gorm:"index;type:bigint unsigned" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Answers []AttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers"`

	Score          int `gorm:"default:0" json:"score"`
	TotalQuestions int `gorm:"default:0" json:"totalQuestions"`
	// 答题时测验的总分快照，测验随后被修改也不影响历史成绩
	TotalScore int        `gorm:"default:0" json:"totalScore"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Completed  bool       `gorm:"default:false" json:"completed"`
	TimeSpent  int        `gorm:"default:0" json:"timeSpent"` // Seconds
}

func (Attempt) TableName() string {
	return "attempts"
}

// swagger:model AttemptAnswer
type AttemptAnswer struct {
	BaseModel
	AttemptID      string `gorm:"index;type:varchar(36)" json:"attemptId"`
	QuestionID     uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	SelectedOption string `gorm:"type:text" json:"selectedOption"`
	IsCorrect      bool   `gorm:"default:false" json:"isCorrect"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}

// Percentage 百分比得分，总分为0时返回0而不是NaN
func (a *Attempt) Percentage() float64 {
	if a.TotalScore <= 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalScore) * 100
}

// AccuracyRate 与 Percentage 相同口径，按需提供给前端
func (a *Attempt) AccuracyRate() float64 {
	return a.Percentage()
}

// TimePerQuestion 平均每题耗时（秒），题数为0时返回0
func (a *Attempt) TimePerQuestion() float64 {
	if a.TotalQuestions <= 0 {
		return 0
	}
	return float64(a.TimeSpent) / float64(a.TotalQuestions)
}
