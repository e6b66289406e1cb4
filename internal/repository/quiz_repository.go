package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// QuizFilter 列表查询过滤条件，零值字段不参与过滤
type QuizFilter struct {
	Category   string
	Tags       []string
	Difficulty string
	Status     string
	MinScore   int
	MaxScore   int
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.`order` asc, questions.id asc")
		}).
		Preload("Questions.Options").
		Preload("Creator").
		First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) List(filter QuizFilter) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.DB.Model(&model.Quiz{}).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.`order` asc, questions.id asc")
		}).
		Preload("Questions.Options").
		Preload("Creator")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinScore > 0 {
		query = query.Where("total_score >= ?", filter.MinScore)
	}
	if filter.MaxScore > 0 {
		query = query.Where("total_score <= ?", filter.MaxScore)
	}
	// 标签以JSON数组落库，逐个LIKE匹配保证全部命中
	for _, tag := range filter.Tags {
		query = query.Where("tags LIKE ?", "%\""+tag+"\"%")
	}

	err := query.Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

// Update 整体更新：题目全量替换，测验字段覆盖保存
func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var oldQuestions []model.Question
		if err := tx.Where("quiz_id = ?", quiz.ID).Find(&oldQuestions).Error; err != nil {
			return err
		}
		for _, q := range oldQuestions {
			if err := tx.Where("question_id = ?", q.ID).Delete(&model.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(quiz).Error
	})
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questions []model.Question
		if err := tx.Where("quiz_id = ?", id).Find(&questions).Error; err != nil {
			return err
		}
		for _, q := range questions {
			if err := tx.Where("question_id = ?", q.ID).Delete(&model.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}
