package model

import "time"

// UserAnalytics 单个用户的答题汇总
// swagger:model UserAnalytics
type UserAnalytics struct {
	TotalQuizzes   int                                `json:"totalQuizzes"`
	TotalAttempts  int                                `json:"totalAttempts"`
	AverageScore   float64                            `json:"averageScore"`
	TotalTimeSpent int                                `json:"totalTimeSpent"`
	CompletionRate float64                            `json:"completionRate"`
	RecentAttempts []RecentAttempt                    `json:"recentAttempts"`
	ByDifficulty   map[QuizDifficulty]DifficultyStats `json:"byDifficulty"`
}

type RecentAttempt struct {
	AttemptID  string     `json:"attemptId"`
	QuizTitle  string     `json:"quizTitle"`
	Percentage float64    `json:"percentage"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	TimeSpent  int        `json:"timeSpent"`
}

// DifficultyStats 按难度聚合：次数、百分比之和与均值
type DifficultyStats struct {
	Attempts        int     `json:"attempts"`
	TotalPercentage float64 `json:"totalPercentage"`
	AverageScore    float64 `json:"averageScore"`
}

// QuizAnalytics 单个测验的答题汇总
// swagger:model QuizAnalytics
type QuizAnalytics struct {
	TotalAttempts     int                 `json:"totalAttempts"`
	AverageScore      float64             `json:"averageScore"`
	HighestScore      float64             `json:"highestScore"`
	AverageTime       float64             `json:"averageTime"`
	QuestionBreakdown []QuestionBreakdown `json:"questionBreakdown"`
}

// QuestionBreakdown 每道题的作答分布
type QuestionBreakdown struct {
	QuestionID   uint           `json:"questionId"`
	Text         string         `json:"text"`
	CorrectCount int            `json:"correctCount"`
	TotalCount   int            `json:"totalCount"`
	Distribution map[string]int `json:"distribution"` // 选项文本 -> 选择人数
}

// QuizHistoryGroup 用户历史按测验分组
type QuizHistoryGroup struct {
	QuizID     uint                 `json:"quizId"`
	QuizTitle  string               `json:"quizTitle"`
	Difficulty QuizDifficulty       `json:"difficulty"`
	Attempts   []AttemptHistoryItem `json:"attempts"`
	Stats      HistoryStats         `json:"stats"`
}

type AttemptHistoryItem struct {
	AttemptID  string     `json:"attemptId"`
	Score      int        `json:"score"`
	TotalScore int        `json:"totalScore"`
	Percentage float64    `json:"percentage"`
	Completed  bool       `json:"completed"`
	TimeSpent  int        `json:"timeSpent"`
	EndTime    *time.Time `json:"endTime,omitempty"`
}

type HistoryStats struct {
	TotalAttempts  int     `json:"totalAttempts"`
	HighestScore   float64 `json:"highestScore"`
	AverageScore   float64 `json:"averageScore"`
	TotalTimeSpent int     `json:"totalTimeSpent"`
}

// AttemptSummary 单次答题的逐题回顾
type AttemptSummary struct {
	AttemptID       string                   `json:"attemptId"`
	QuizTitle       string                   `json:"quizTitle"`
	Score           int                      `json:"score"`
	TotalScore      int                      `json:"totalScore"`
	Percentage      float64                  `json:"percentage"`
	TimeSpent       int                      `json:"timeSpent"`
	TimePerQuestion float64                  `json:"timePerQuestion"`
	Questions       []AttemptSummaryQuestion `json:"questions"`
}

type AttemptSummaryQuestion struct {
	QuestionID     uint         `json:"questionId"`
	Type           QuestionType `json:"type"`
	Text           string       `json:"text"`
	Options        []string     `json:"options,omitempty"`
	SelectedOption string       `json:"selectedOption"`
	CorrectAnswer  string       `json:"correctAnswer"`
	IsCorrect      bool         `json:"isCorrect"`
	Points         int          `json:"points"`
}
