package model

type QuizDifficulty string

const (
	Easy   QuizDifficulty = "easy"
	Medium QuizDifficulty = "medium"
	Hard   QuizDifficulty = "hard"
)

type QuizStatus string

const (
	Draft     QuizStatus = "draft"
	Published QuizStatus = "published"
	Archived  QuizStatus = "archived"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:100;index" json:"category"`
	Difficulty  QuizDifficulty `gorm:"size:20;index;default:'medium'" json:"difficulty"`
	TimeLimit   int            `gorm:"default:30" json:"timeLimit"` // Minutes
	Status      QuizStatus     `gorm:"size:20;index;default:'draft'" json:"status"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
	// 派生字段：校验通过后由服务端重算，不信任客户端提交值
	TotalScore    int        `gorm:"default:0" json:"totalScore"`
	NoOfQuestions int        `gorm:"default:0" json:"noOfQuestions"`
	CreatedBy     uint       `gorm:"index;type:bigint unsigned" json:"createdBy"`
	Creator       *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Questions     []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID uint         `gorm:"index;type:bigint unsigned" json:"quizId"`
	Type   QuestionType `gorm:"size:30;not null" json:"type"`
	Text   string       `gorm:"type:text;not null" json:"text"`
	// 简答题的标准答案，选择/判断题留空
	CorrectAnswer string   `gorm:"type:text" json:"correctAnswer,omitempty"`
	Points        int      `gorm:"default:0" json:"points"`
	Order         int      `gorm:"default:0" json:"order"`
	Options       []Option `gorm:"foreignKey:QuestionID" json:"options"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Option
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}

// CorrectOption 返回唯一标记为正确的选项，未标记时返回nil
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
