package service

import (
	"context"
	"encoding/json"
	"fmt"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
)

const quizCacheTTL = 10 * time.Minute

type QuizService struct {
	QuizRepo *repository.QuizRepository
	Redis    *redis.Client
}

func NewQuizService(quizRepo *repository.QuizRepository, rdb *redis.Client) *QuizService {
	return &QuizService{QuizRepo: quizRepo, Redis: rdb}
}

type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	Type          model.QuestionType `json:"type" binding:"required"`
	Text          string             `json:"text" binding:"required"`
	Options       []OptionRequest    `json:"options"`
	CorrectAnswer string             `json:"correctAnswer"`
	Points        int                `json:"points"`
	Order         int                `json:"order"`
}

type QuizRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Difficulty  model.QuizDifficulty `json:"difficulty"`
	TimeLimit   int                  `json:"timeLimit"`
	Status      model.QuizStatus     `json:"status"`
	Tags        []string             `json:"tags"`
	Questions   []QuestionRequest    `json:"questions"`
}

func (req *QuizRequest) toModel(creatorID uint) *model.Quiz {
	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		TimeLimit:   req.TimeLimit,
		Status:      req.Status,
		Tags:        req.Tags,
		CreatedBy:   creatorID,
	}
	for i, qr := range req.Questions {
		question := model.Question{
			Type:          qr.Type,
			Text:          qr.Text,
			CorrectAnswer: qr.CorrectAnswer,
			Points:        qr.Points,
			Order:         qr.Order,
		}
		if question.Order == 0 {
			question.Order = i + 1
		}
		for _, or := range qr.Options {
			question.Options = append(question.Options, model.Option{
				Text:      or.Text,
				IsCorrect: or.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}

// CreateQuiz 校验 -> 重算派生字段 -> 持久化，校验失败不落库
func (s *QuizService) CreateQuiz(creatorID uint, req QuizRequest) (*model.Quiz, error) {
	quiz := req.toModel(creatorID)
	if quiz.Status == "" {
		quiz.Status = model.Draft
	}
	if quiz.Difficulty == "" {
		quiz.Difficulty = model.Medium
	}

	if err := ValidateQuiz(quiz); err != nil {
		return nil, err
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuiz(id uint) (*model.Quiz, error) {
	if s.Redis != nil {
		var cached model.Quiz
		val, err := s.Redis.Get(context.Background(), quizCacheKey(id)).Result()
		if err == nil && json.Unmarshal([]byte(val), &cached) == nil {
			return &cached, nil
		}
	}

	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(quiz); err == nil {
			s.Redis.Set(context.Background(), quizCacheKey(id), data, quizCacheTTL)
		}
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(filter repository.QuizFilter) ([]model.Quiz, error) {
	return s.QuizRepo.List(filter)
}

// UpdateQuiz 整体更新，仅创建者或管理员可操作
func (s *QuizService) UpdateQuiz(id uint, claims *util.Claims, req QuizRequest) (*model.Quiz, error) {
	existing, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if existing.CreatedBy != claims.UserID && claims.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	quiz := req.toModel(existing.CreatedBy)
	quiz.ID = existing.ID
	quiz.CreatedAt = existing.CreatedAt
	if quiz.Status == "" {
		quiz.Status = existing.Status
	}
	if quiz.Difficulty == "" {
		quiz.Difficulty = existing.Difficulty
	}

	if err := ValidateQuiz(quiz); err != nil {
		return nil, err
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}

	s.invalidateCache(id)
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(id uint, claims *util.Claims) error {
	existing, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return err
	}

	if existing.CreatedBy != claims.UserID && claims.Role != model.Admin {
		return util.ErrPermissionDenied
	}

	if err := s.QuizRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateCache(id)
	return nil
}

func (s *QuizService) invalidateCache(id uint) {
	if s.Redis != nil {
		s.Redis.Del(context.Background(), quizCacheKey(id))
	}
}

func quizCacheKey(id uint) string {
	return fmt.Sprintf("quiz:detail:%d", id)
}

// QuizView 对外视图：选项不带正确标记，简答题不带标准答案
type QuizView struct {
	ID            uint                 `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Difficulty    model.QuizDifficulty `json:"difficulty"`
	TimeLimit     int                  `json:"timeLimit"`
	Status        model.QuizStatus     `json:"status"`
	Tags          []string             `json:"tags"`
	TotalScore    int                  `json:"totalScore"`
	NoOfQuestions int                  `json:"noOfQuestions"`
	CreatorName   string               `json:"creatorName,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	Questions     []QuestionView       `json:"questions"`
}

type QuestionView struct {
	ID      uint               `json:"id"`
	Type    model.QuestionType `json:"type"`
	Text    string             `json:"text"`
	Points  int                `json:"points"`
	Order   int                `json:"order"`
	Options []string           `json:"options"`
}

// SanitizeQuiz 剥离答案信息后的公开视图
func SanitizeQuiz(quiz *model.Quiz) QuizView {
	view := QuizView{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		Category:      quiz.Category,
		Difficulty:    quiz.Difficulty,
		TimeLimit:     quiz.TimeLimit,
		Status:        quiz.Status,
		Tags:          quiz.Tags,
		TotalScore:    quiz.TotalScore,
		NoOfQuestions: quiz.NoOfQuestions,
		CreatedAt:     quiz.CreatedAt,
	}
	if quiz.Creator != nil {
		view.CreatorName = quiz.Creator.Name
	}
	for _, q := range quiz.Questions {
		qv := QuestionView{
			ID:     q.ID,
			Type:   q.Type,
			Text:   q.Text,
			Points: q.Points,
			Order:  q.Order,
		}
		for _, o := range q.Options {
			qv.Options = append(qv.Options, o.Text)
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}
