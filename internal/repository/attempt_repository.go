package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.
		Preload("Answers").
		Preload("Quiz").
		Preload("Quiz.Questions").
		Preload("Quiz.Questions.Options").
		Where("id = ?", id).
		First(&attempt).Error
	return &attempt, err
}

// ListByUser 按提交时间倒序返回用户的全部答题记录
func (r *AttemptRepository) ListByUser(userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.
		Preload("Quiz").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByQuiz(quizID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.
		Preload("Answers").
		Where("quiz_id = ?", quizID).
		Order("created_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
