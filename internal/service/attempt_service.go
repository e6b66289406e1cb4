package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/monitoring"
	"strings"
	"time"
)

type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	QuizRepo    *repository.QuizRepository
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository) *AttemptService {
	return &AttemptService{AttemptRepo: attemptRepo, QuizRepo: quizRepo}
}

// MissingFieldsError 缺少必填字段。数值字段用指针区分"未提供"和0
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

type AttemptAnswerRequest struct {
	QuestionID     uint   `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
}

type AttemptRequest struct {
	Quiz           *uint                  `json:"quiz"`
	Answers        []AttemptAnswerRequest `json:"answers"`
	Score          *int                   `json:"score"`
	TotalQuestions *int                   `json:"totalQuestions"`
	TotalScore     *int                   `json:"totalScore"`
	TimeSpent      int                    `json:"timeSpent"`
	Completed      bool                   `json:"completed"`
	StartTime      *time.Time             `json:"startTime"`
	EndTime        *time.Time             `json:"endTime"`
}

func (req *AttemptRequest) missingFields() []string {
	var missing []string
	if req.Quiz == nil {
		missing = append(missing, "quiz")
	}
	if req.Answers == nil {
		missing = append(missing, "answers")
	}
	if req.Score == nil {
		missing = append(missing, "score")
	}
	if req.TotalQuestions == nil {
		missing = append(missing, "totalQuestions")
	}
	return missing
}

// Submit 答题提交。得分与逐题对错由服务端按标准答案重新判定，
// 客户端提交的 score 仅用于字段完整性检查，不直接采信。
func (s *AttemptService) Submit(userID uint, req AttemptRequest) (*model.Attempt, error) {
	if missing := req.missingFields(); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	quiz, err := s.QuizRepo.FindByID(*req.Quiz)
	if err != nil {
		return nil, err
	}

	questionByID := make(map[uint]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questionByID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	attempt := &model.Attempt{
		QuizID:         quiz.ID,
		UserID:         userID,
		TotalQuestions: len(quiz.Questions),
		TotalScore:     quiz.TotalScore,
		TimeSpent:      req.TimeSpent,
		Completed:      req.Completed,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}

	score := 0
	for _, ans := range req.Answers {
		question, ok := questionByID[ans.QuestionID]
		if !ok {
			continue
		}
		isCorrect := isAnswerCorrect(question, ans.SelectedOption)
		if isCorrect {
			score += question.Points
		}
		attempt.Answers = append(attempt.Answers, model.AttemptAnswer{
			QuestionID:     ans.QuestionID,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      isCorrect,
		})
	}
	attempt.Score = score

	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	monitoring.AttemptCounter.WithLabelValues(string(quiz.Difficulty)).Inc()

	return attempt, nil
}

func isAnswerCorrect(question *model.Question, selected string) bool {
	switch question.Type {
	case model.ShortAnswer:
		return strings.EqualFold(
			strings.TrimSpace(selected),
			strings.TrimSpace(question.CorrectAnswer),
		)
	default:
		correct := question.CorrectOption()
		if correct == nil {
			return false
		}
		return selected == correct.Text
	}
}

// Summary 逐题回顾。仅本人、测验创建者或管理员可查看
func (s *AttemptService) Summary(attemptID string, claims *util.Claims) (*model.AttemptSummary, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}

	if !canViewAttempt(attempt, claims) {
		return nil, util.ErrPermissionDenied
	}

	summary := &model.AttemptSummary{
		AttemptID:       attempt.ID,
		Score:           attempt.Score,
		TotalScore:      attempt.TotalScore,
		Percentage:      attempt.Percentage(),
		TimeSpent:       attempt.TimeSpent,
		TimePerQuestion: attempt.TimePerQuestion(),
	}

	var questionByID map[uint]*model.Question
	if attempt.Quiz != nil {
		summary.QuizTitle = attempt.Quiz.Title
		questionByID = make(map[uint]*model.Question, len(attempt.Quiz.Questions))
		for i := range attempt.Quiz.Questions {
			questionByID[attempt.Quiz.Questions[i].ID] = &attempt.Quiz.Questions[i]
		}
	}

	for _, ans := range attempt.Answers {
		item := model.AttemptSummaryQuestion{
			QuestionID:     ans.QuestionID,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      ans.IsCorrect,
		}
		if question, ok := questionByID[ans.QuestionID]; ok {
			item.Type = question.Type
			item.Text = question.Text
			item.Points = question.Points
			if question.Type == model.ShortAnswer {
				item.CorrectAnswer = question.CorrectAnswer
			} else if correct := question.CorrectOption(); correct != nil {
				item.CorrectAnswer = correct.Text
			}
			for _, o := range question.Options {
				item.Options = append(item.Options, o.Text)
			}
		}
		summary.Questions = append(summary.Questions, item)
	}

	return summary, nil
}

func canViewAttempt(attempt *model.Attempt, claims *util.Claims) bool {
	if claims.Role == model.Admin {
		return true
	}
	if attempt.UserID == claims.UserID {
		return true
	}
	if attempt.Quiz != nil && attempt.Quiz.CreatedBy == claims.UserID {
		return true
	}
	return false
}
