package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
)

type AnalyticsService struct {
	AttemptRepo *repository.AttemptRepository
	QuizRepo    *repository.QuizRepository
}

func NewAnalyticsService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository) *AnalyticsService {
	return &AnalyticsService{AttemptRepo: attemptRepo, QuizRepo: quizRepo}
}

// UserAnalytics 当前用户的答题总览。除零场景（无记录、总分为0）
// 统一显式分支处理，返回0而不是NaN。
func (s *AnalyticsService) UserAnalytics(userID uint) (*model.UserAnalytics, error) {
	attempts, err := s.AttemptRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	result := &model.UserAnalytics{
		TotalAttempts:  len(attempts),
		RecentAttempts: []model.RecentAttempt{},
		ByDifficulty:   make(map[model.QuizDifficulty]model.DifficultyStats),
	}

	quizSeen := make(map[uint]bool)
	percentageSum := 0.0
	completedCount := 0

	for _, attempt := range attempts {
		quizSeen[attempt.QuizID] = true
		percentageSum += attempt.Percentage()
		result.TotalTimeSpent += attempt.TimeSpent
		if attempt.Completed {
			completedCount++
		}

		if attempt.Quiz != nil {
			stats := result.ByDifficulty[attempt.Quiz.Difficulty]
			stats.Attempts++
			stats.TotalPercentage += attempt.Percentage()
			stats.AverageScore = stats.TotalPercentage / float64(stats.Attempts)
			result.ByDifficulty[attempt.Quiz.Difficulty] = stats
		}

		if len(result.RecentAttempts) < 5 {
			recent := model.RecentAttempt{
				AttemptID:  attempt.ID,
				Percentage: attempt.Percentage(),
				EndTime:    attempt.EndTime,
				TimeSpent:  attempt.TimeSpent,
			}
			if attempt.Quiz != nil {
				recent.QuizTitle = attempt.Quiz.Title
			}
			result.RecentAttempts = append(result.RecentAttempts, recent)
		}
	}

	result.TotalQuizzes = len(quizSeen)
	if len(attempts) > 0 {
		result.AverageScore = percentageSum / float64(len(attempts))
		result.CompletionRate = float64(completedCount) / float64(len(attempts)) * 100
	}

	return result, nil
}

// QuizAnalytics 单个测验的作答统计。空集的最高分取0作为哨兵值。
func (s *AnalyticsService) QuizAnalytics(quizID uint) (*model.QuizAnalytics, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	result := &model.QuizAnalytics{
		TotalAttempts:     len(attempts),
		QuestionBreakdown: []model.QuestionBreakdown{},
	}

	percentageSum := 0.0
	timeSum := 0
	for _, attempt := range attempts {
		p := attempt.Percentage()
		percentageSum += p
		timeSum += attempt.TimeSpent
		if p > result.HighestScore {
			result.HighestScore = p
		}
	}
	if len(attempts) > 0 {
		result.AverageScore = percentageSum / float64(len(attempts))
		result.AverageTime = float64(timeSum) / float64(len(attempts))
	}

	breakdownByQuestion := make(map[uint]*model.QuestionBreakdown, len(quiz.Questions))
	for _, q := range quiz.Questions {
		breakdownByQuestion[q.ID] = &model.QuestionBreakdown{
			QuestionID:   q.ID,
			Text:         q.Text,
			Distribution: make(map[string]int),
		}
	}

	for _, attempt := range attempts {
		for _, ans := range attempt.Answers {
			breakdown, ok := breakdownByQuestion[ans.QuestionID]
			if !ok {
				continue
			}
			breakdown.TotalCount++
			breakdown.Distribution[ans.SelectedOption]++
			if ans.IsCorrect {
				breakdown.CorrectCount++
			}
		}
	}

	// 保持题目原有顺序输出
	for _, q := range quiz.Questions {
		result.QuestionBreakdown = append(result.QuestionBreakdown, *breakdownByQuestion[q.ID])
	}

	return result, nil
}

// UserHistory 用户历史按测验分组，组内按提交时间倒序
func (s *AnalyticsService) UserHistory(userID uint) ([]model.QuizHistoryGroup, error) {
	attempts, err := s.AttemptRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	groupByQuiz := make(map[uint]*model.QuizHistoryGroup)
	var order []uint

	for _, attempt := range attempts {
		group, ok := groupByQuiz[attempt.QuizID]
		if !ok {
			group = &model.QuizHistoryGroup{QuizID: attempt.QuizID}
			if attempt.Quiz != nil {
				group.QuizTitle = attempt.Quiz.Title
				group.Difficulty = attempt.Quiz.Difficulty
			}
			groupByQuiz[attempt.QuizID] = group
			order = append(order, attempt.QuizID)
		}

		percentage := attempt.Percentage()
		group.Attempts = append(group.Attempts, model.AttemptHistoryItem{
			AttemptID:  attempt.ID,
			Score:      attempt.Score,
			TotalScore: attempt.TotalScore,
			Percentage: percentage,
			Completed:  attempt.Completed,
			TimeSpent:  attempt.TimeSpent,
			EndTime:    attempt.EndTime,
		})

		// 汇总统计随每条记录增量更新
		group.Stats.TotalAttempts++
		group.Stats.TotalTimeSpent += attempt.TimeSpent
		if percentage > group.Stats.HighestScore {
			group.Stats.HighestScore = percentage
		}
		group.Stats.AverageScore += (percentage - group.Stats.AverageScore) / float64(group.Stats.TotalAttempts)
	}

	result := make([]model.QuizHistoryGroup, 0, len(order))
	for _, quizID := range order {
		result = append(result, *groupByQuiz[quizID])
	}
	return result, nil
}
