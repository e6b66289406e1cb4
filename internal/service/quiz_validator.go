package service

import (
	"fmt"
	"quizhub_backend/internal/model"
	"strings"
)

// ValidationErrors 结构化校验错误，逐条返回给前端
type ValidationErrors struct {
	Errors []string
}

func (e *ValidationErrors) Error() string {
	return strings.Join(e.Errors, "; ")
}

const (
	minTitleLen       = 3
	maxTitleLen       = 200
	minDescriptionLen = 10
	maxDescriptionLen = 2000
	minTimeLimit      = 1
	maxTimeLimit      = 180
	minPoints         = 1
	maxPoints         = 100
	maxTags           = 10
)

var validDifficulties = map[model.QuizDifficulty]bool{
	model.Easy:   true,
	model.Medium: true,
	model.Hard:   true,
}

var validStatuses = map[model.QuizStatus]bool{
	model.Draft:     true,
	model.Published: true,
	model.Archived:  true,
}

// ValidateQuiz 持久化前的结构校验。校验通过时重算 TotalScore 和
// NoOfQuestions 并覆盖客户端提交的值（静默纠正，不算错误）。
func ValidateQuiz(quiz *model.Quiz) error {
	var errs []string

	if l := len(quiz.Title); l < minTitleLen || l > maxTitleLen {
		errs = append(errs, fmt.Sprintf("Title must be between %d and %d characters", minTitleLen, maxTitleLen))
	}
	if l := len(quiz.Description); l < minDescriptionLen || l > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("Description must be between %d and %d characters", minDescriptionLen, maxDescriptionLen))
	}
	if quiz.TimeLimit < minTimeLimit || quiz.TimeLimit > maxTimeLimit {
		errs = append(errs, fmt.Sprintf("Time limit must be between %d and %d minutes", minTimeLimit, maxTimeLimit))
	}
	if !validDifficulties[quiz.Difficulty] {
		errs = append(errs, "Difficulty must be one of: easy, medium, hard")
	}
	if quiz.Status != "" && !validStatuses[quiz.Status] {
		errs = append(errs, "Status must be one of: draft, published, archived")
	}
	if len(quiz.Tags) > maxTags {
		errs = append(errs, fmt.Sprintf("A quiz cannot have more than %d tags", maxTags))
	}
	if len(quiz.Questions) < 1 {
		errs = append(errs, "A quiz must have at least one question")
	}

	for i := range quiz.Questions {
		errs = append(errs, validateQuestion(&quiz.Questions[i], i+1)...)
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}

	// 派生字段由服务端重算，客户端提交的值一律覆盖
	totalScore := 0
	for _, q := range quiz.Questions {
		totalScore += q.Points
	}
	quiz.TotalScore = totalScore
	quiz.NoOfQuestions = len(quiz.Questions)

	return nil
}

func validateQuestion(q *model.Question, ordinal int) []string {
	var errs []string

	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, fmt.Sprintf("Question %d must have a non-empty text", ordinal))
	}
	if q.Points < minPoints || q.Points > maxPoints {
		errs = append(errs, fmt.Sprintf("Question %d points must be between %d and %d", ordinal, minPoints, maxPoints))
	}

	switch q.Type {
	case model.MultipleChoice:
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("Question %d: multiple choice questions must have exactly 4 options", ordinal))
		}
		if countCorrect(q.Options) != 1 {
			errs = append(errs, "Each question must have exactly one correct answer")
		}
	case model.TrueFalse:
		if len(q.Options) != 2 {
			errs = append(errs, fmt.Sprintf("Question %d: true/false questions must have exactly 2 options", ordinal))
		}
		if countCorrect(q.Options) != 1 {
			errs = append(errs, "Each question must have exactly one correct answer")
		}
	case model.ShortAnswer:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			errs = append(errs, fmt.Sprintf("Question %d: short answer questions must have a correct answer", ordinal))
		}
	default:
		errs = append(errs, fmt.Sprintf("Question %d has an unknown type: %s", ordinal, q.Type))
	}

	return errs
}

func countCorrect(options []model.Option) int {
	count := 0
	for _, o := range options {
		if o.IsCorrect {
			count++
		}
	}
	return count
}
