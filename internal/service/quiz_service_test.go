package service

import (
	"errors"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func validQuizRequest() QuizRequest {
	return QuizRequest{
		Title:       "Basic Algebra",
		Description: "Linear equations and simple factoring.",
		Category:    "math",
		TimeLimit:   30,
		Tags:        []string{"algebra"},
		Questions: []QuestionRequest{
			{
				Type:   model.MultipleChoice,
				Text:   "Solve x + 1 = 3",
				Points: 4,
				Options: []OptionRequest{
					{Text: "1"},
					{Text: "2", IsCorrect: true},
					{Text: "3"},
					{Text: "4"},
				},
			},
			{
				Type:          model.ShortAnswer,
				Text:          "Factor x^2 - 1",
				CorrectAnswer: "(x-1)(x+1)",
				Points:        6,
			},
		},
	}
}

func TestCreateQuizAppliesDefaults(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	svc := NewQuizService(repository.NewQuizRepository(db), nil)

	quiz, err := svc.CreateQuiz(user.ID, validQuizRequest())
	if err != nil {
		t.Fatalf("createQuiz: %v", err)
	}

	if quiz.Status != model.Draft {
		t.Fatalf("status = %s, want draft", quiz.Status)
	}
	if quiz.Difficulty != model.Medium {
		t.Fatalf("difficulty = %s, want medium", quiz.Difficulty)
	}
	if quiz.TotalScore != 10 || quiz.NoOfQuestions != 2 {
		t.Fatalf("derived fields = %d/%d, want 10/2", quiz.TotalScore, quiz.NoOfQuestions)
	}
	if quiz.ID == 0 {
		t.Fatal("quiz not persisted")
	}
	// 未显式指定时题目顺序按提交顺序编号
	if quiz.Questions[0].Order != 1 || quiz.Questions[1].Order != 2 {
		t.Fatalf("question order = %d/%d", quiz.Questions[0].Order, quiz.Questions[1].Order)
	}
}

func TestCreateQuizValidationFailureNotPersisted(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	svc := NewQuizService(repository.NewQuizRepository(db), nil)

	req := validQuizRequest()
	req.Title = "x"
	req.Questions[0].Options[0].IsCorrect = true // 两个正确选项

	_, err := svc.CreateQuiz(user.ID, req)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *ValidationErrors, got %v", err)
	}

	var count int64
	if err := db.Model(&model.Quiz{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalid quiz must not be persisted, found %d rows", count)
	}
}

func TestGetQuizCaches(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db := newTestDB(t)
	user := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	quiz := seedQuiz(t, db, user.ID)
	svc := NewQuizService(repository.NewQuizRepository(db), rdb)

	if _, err := svc.GetQuiz(quiz.ID); err != nil {
		t.Fatalf("getQuiz: %v", err)
	}
	if !mr.Exists(quizCacheKey(quiz.ID)) {
		t.Fatal("detail should be cached after first read")
	}

	// 行已删，命中缓存仍能返回
	if err := db.Unscoped().Where("1 = 1").Delete(&model.Quiz{}).Error; err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	got, err := svc.GetQuiz(quiz.ID)
	if err != nil {
		t.Fatalf("cached getQuiz: %v", err)
	}
	if got.Title != quiz.Title {
		t.Fatalf("cached title = %q, want %q", got.Title, quiz.Title)
	}
}

func TestUpdateQuizInvalidatesCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db := newTestDB(t)
	user := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	quiz := seedQuiz(t, db, user.ID)
	svc := NewQuizService(repository.NewQuizRepository(db), rdb)

	if _, err := svc.GetQuiz(quiz.ID); err != nil {
		t.Fatalf("getQuiz: %v", err)
	}

	req := validQuizRequest()
	if _, err := svc.UpdateQuiz(quiz.ID, claimsFor(user), req); err != nil {
		t.Fatalf("updateQuiz: %v", err)
	}
	if mr.Exists(quizCacheKey(quiz.ID)) {
		t.Fatal("cache entry should be invalidated on update")
	}
}

func TestUpdateQuizOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	other := seedUser(t, db, "Bob", "bob@example.com", model.Teacher)
	admin := seedUser(t, db, "Root", "root@example.com", model.Admin)
	quiz := seedQuiz(t, db, owner.ID)
	svc := NewQuizService(repository.NewQuizRepository(db), nil)

	req := validQuizRequest()

	if _, err := svc.UpdateQuiz(quiz.ID, claimsFor(other), req); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for non-owner, got %v", err)
	}
	if _, err := svc.UpdateQuiz(quiz.ID, claimsFor(owner), req); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if _, err := svc.UpdateQuiz(quiz.ID, claimsFor(admin), req); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	// 管理员更新不改变归属
	updated, err := svc.GetQuiz(quiz.ID)
	if err != nil {
		t.Fatalf("getQuiz: %v", err)
	}
	if updated.CreatedBy != owner.ID {
		t.Fatalf("createdBy = %d, want %d", updated.CreatedBy, owner.ID)
	}
}

func TestDeleteQuizOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	other := seedUser(t, db, "Bob", "bob@example.com", model.Student)
	quiz := seedQuiz(t, db, owner.ID)
	svc := NewQuizService(repository.NewQuizRepository(db), nil)

	if err := svc.DeleteQuiz(quiz.ID, claimsFor(other)); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := svc.DeleteQuiz(quiz.ID, claimsFor(owner)); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetQuiz(quiz.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestSanitizeQuizStripsAnswers(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Carol", "carol@example.com", model.Teacher)
	quiz := seedQuiz(t, db, user.ID)

	loaded, err := repository.NewQuizRepository(db).FindByID(quiz.ID)
	if err != nil {
		t.Fatalf("findByID: %v", err)
	}

	view := SanitizeQuiz(loaded)

	if view.CreatorName != user.Name {
		t.Fatalf("creatorName = %q, want %q", view.CreatorName, user.Name)
	}
	if len(view.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(view.Questions))
	}
	// 选项只剩文本，正确标记和标准答案不外泄
	mc := view.Questions[0]
	if len(mc.Options) != 4 {
		t.Fatalf("options = %d, want 4", len(mc.Options))
	}
	for _, opt := range mc.Options {
		if opt == "" {
			t.Fatal("option text lost")
		}
	}
	sa := view.Questions[1]
	if sa.Type != model.ShortAnswer || len(sa.Options) != 0 {
		t.Fatalf("short answer view = %+v", sa)
	}
}
