package service

import (
	"errors"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

func newAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(
		repository.NewAttemptRepository(db),
		repository.NewQuizRepository(db),
	)
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func TestSubmitMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	req := AttemptRequest{
		Quiz:           uintPtr(1),
		Answers:        []AttemptAnswerRequest{},
		TotalQuestions: intPtr(3),
		// score 缺失
	}

	_, err := svc.Submit(1, req)
	if err == nil {
		t.Fatal("expected missing field error, got nil")
	}
	var mferr *MissingFieldsError
	if !errors.As(err, &mferr) {
		t.Fatalf("expected *MissingFieldsError, got %T", err)
	}
	if err.Error() != "Missing required fields: score" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestSubmitZeroValuesAreNotMissing(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Alice", "alice@example.com", model.Student)
	quiz := seedQuiz(t, db, user.ID)
	svc := newAttemptService(db)

	// 零值与缺失不同：score=0 是合法提交
	req := AttemptRequest{
		Quiz:           &quiz.ID,
		Answers:        []AttemptAnswerRequest{},
		Score:          intPtr(0),
		TotalQuestions: intPtr(0),
		TotalScore:     intPtr(0),
	}

	attempt, err := svc.Submit(user.ID, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Score != 0 {
		t.Fatalf("score = %d, want 0", attempt.Score)
	}
}

func TestSubmitRescoresServerSide(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Alice", "alice@example.com", model.Student)
	quiz := seedQuiz(t, db, user.ID)
	svc := newAttemptService(db)

	req := AttemptRequest{
		Quiz: &quiz.ID,
		Answers: []AttemptAnswerRequest{
			{QuestionID: quiz.Questions[0].ID, SelectedOption: "4"},
			// 简答题忽略大小写和首尾空白
			{QuestionID: quiz.Questions[1].ID, SelectedOption: "  paris "},
			{QuestionID: quiz.Questions[2].ID, SelectedOption: "False"},
		},
		// 客户端谎报满分，服务端按标准答案重新判定
		Score:          intPtr(999),
		TotalQuestions: intPtr(1),
		TotalScore:     intPtr(999),
		TimeSpent:      120,
		Completed:      true,
	}

	attempt, err := svc.Submit(user.ID, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if attempt.Score != 10 {
		t.Fatalf("score = %d, want 10", attempt.Score)
	}
	if attempt.TotalQuestions != 3 {
		t.Fatalf("totalQuestions = %d, want 3", attempt.TotalQuestions)
	}
	if attempt.TotalScore != 12 {
		t.Fatalf("totalScore = %d, want 12", attempt.TotalScore)
	}
	if attempt.ID == "" {
		t.Fatal("attempt should get a generated id")
	}

	wantCorrect := []bool{true, true, false}
	if len(attempt.Answers) != len(wantCorrect) {
		t.Fatalf("answers = %d, want %d", len(attempt.Answers), len(wantCorrect))
	}
	for i, want := range wantCorrect {
		if attempt.Answers[i].IsCorrect != want {
			t.Fatalf("answer %d isCorrect = %v, want %v", i, attempt.Answers[i].IsCorrect, want)
		}
	}

	if p := attempt.Percentage(); p < 83.0 || p > 84.0 {
		t.Fatalf("percentage = %f, want ~83.33", p)
	}
}

func TestSubmitUnknownQuestionIgnored(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Alice", "alice@example.com", model.Student)
	quiz := seedQuiz(t, db, user.ID)
	svc := newAttemptService(db)

	req := AttemptRequest{
		Quiz: &quiz.ID,
		Answers: []AttemptAnswerRequest{
			{QuestionID: 99999, SelectedOption: "4"},
		},
		Score:          intPtr(0),
		TotalQuestions: intPtr(1),
	}

	attempt, err := svc.Submit(user.ID, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(attempt.Answers) != 0 {
		t.Fatalf("answers to unknown questions must be dropped, got %d", len(attempt.Answers))
	}
}

func TestSubmitQuizNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	req := AttemptRequest{
		Quiz:           uintPtr(9999),
		Answers:        []AttemptAnswerRequest{},
		Score:          intPtr(0),
		TotalQuestions: intPtr(0),
	}

	_, err := svc.Submit(1, req)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestSummaryAccessControl(t *testing.T) {
	db := newTestDB(t)
	creator := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	owner := seedUser(t, db, "Alice", "alice@example.com", model.Student)
	stranger := seedUser(t, db, "Bob", "bob@example.com", model.Student)
	admin := seedUser(t, db, "Root", "root@example.com", model.Admin)
	quiz := seedQuiz(t, db, creator.ID)
	svc := newAttemptService(db)

	attempt, err := svc.Submit(owner.ID, AttemptRequest{
		Quiz: &quiz.ID,
		Answers: []AttemptAnswerRequest{
			{QuestionID: quiz.Questions[0].ID, SelectedOption: "3"},
		},
		Score:          intPtr(0),
		TotalQuestions: intPtr(3),
		TimeSpent:      60,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// 本人、测验创建者和管理员可以查看
	for _, u := range []*model.User{owner, creator, admin} {
		if _, err := svc.Summary(attempt.ID, claimsFor(u)); err != nil {
			t.Fatalf("summary as %s: %v", u.Name, err)
		}
	}

	// 无关用户被拒绝
	if _, err := svc.Summary(attempt.ID, claimsFor(stranger)); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestSummaryRevealsCorrectAnswers(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Alice", "alice@example.com", model.Student)
	quiz := seedQuiz(t, db, user.ID)
	svc := newAttemptService(db)

	attempt, err := svc.Submit(user.ID, AttemptRequest{
		Quiz: &quiz.ID,
		Answers: []AttemptAnswerRequest{
			{QuestionID: quiz.Questions[0].ID, SelectedOption: "3"},
			{QuestionID: quiz.Questions[1].ID, SelectedOption: "London"},
		},
		Score:          intPtr(0),
		TotalQuestions: intPtr(3),
		TimeSpent:      90,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	summary, err := svc.Summary(attempt.ID, claimsFor(user))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.QuizTitle != quiz.Title {
		t.Fatalf("quizTitle = %q, want %q", summary.QuizTitle, quiz.Title)
	}
	if len(summary.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(summary.Questions))
	}
	// 回顾视图才暴露标准答案
	if summary.Questions[0].CorrectAnswer != "4" {
		t.Fatalf("question 1 correctAnswer = %q, want 4", summary.Questions[0].CorrectAnswer)
	}
	if summary.Questions[1].CorrectAnswer != "Paris" {
		t.Fatalf("question 2 correctAnswer = %q, want Paris", summary.Questions[1].CorrectAnswer)
	}
	if summary.Questions[0].IsCorrect || summary.Questions[1].IsCorrect {
		t.Fatal("both answers were wrong")
	}
	if summary.TimePerQuestion != 30 {
		t.Fatalf("timePerQuestion = %f, want 30", summary.TimePerQuestion)
	}
}
