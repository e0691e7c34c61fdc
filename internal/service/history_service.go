package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/model"
	"prepwise-backend/internal/repository"
)

type HistoryItem struct {
	ID              uint    `json:"id"`
	Date            string  `json:"date"`
	Title           string  `json:"title"`
	Score           float64 `json:"score"`
	Questions       int     `json:"questions"`
	DurationMinutes int     `json:"duration"`
	Field           string  `json:"field"`
	ExperienceLevel string  `json:"experience_level"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

type HistoryStats struct {
	TotalSessions       int     `json:"total_sessions"`
	AverageScore        float64 `json:"average_score"`
	CurrentWeekSessions int     `json:"current_week_sessions"`
}

type AnswerDetail struct {
	AnswerID     uint     `json:"answer_id"`
	QuestionID   uint     `json:"question_id"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Score        float64  `json:"score"`
	Speaking     float64  `json:"speaking"`
	Content      float64  `json:"content"`
	Relevance    float64  `json:"relevance"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	AudioURL     string   `json:"audio_url,omitempty"`
	SessionID    uint     `json:"session_id"`
}

type FieldStat struct {
	Count        int     `json:"count"`
	TotalScore   float64 `json:"total_score"`
	AverageScore float64 `json:"average_score"`
}

type UserStats struct {
	TotalSessions     int                  `json:"total_sessions"`
	CompletedSessions int                  `json:"completed_sessions"`
	OngoingSessions   int                  `json:"ongoing_sessions"`
	CompletionRate    float64              `json:"completion_rate"`
	AverageScore      float64              `json:"average_score"`
	FieldDistribution map[string]FieldStat `json:"field_distribution"`
	RecentPerformance []float64            `json:"recent_performance"`
	PerformanceTrend  string               `json:"performance_trend"`
}

// HistoryService serves read-only session history and statistics.
type HistoryService interface {
	History(userID uint) ([]HistoryItem, *HistoryStats, error)
	AnswerDetail(userID, sessionID, questionID uint) (*AnswerDetail, error)
	UserStats(userID uint) (*UserStats, error)
}

type historyService struct {
	repo repository.InterviewRepository
}

func NewHistoryService(repo repository.InterviewRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) History(userID uint) ([]HistoryItem, *HistoryStats, error) {
	sessions, err := s.repo.GetSessionsByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	now := timeNow().UTC()
	weekAgo := now.Add(-7 * 24 * time.Hour)

	items := make([]HistoryItem, 0, len(sessions))
	stats := &HistoryStats{}
	var totalScore float64

	for _, session := range sessions {
		answers, err := s.repo.GetAnswersBySession(session.ID)
		if err != nil {
			return nil, nil, err
		}

		sessionScore := averageAnswerScore(answers)
		totalScore += sessionScore
		stats.TotalSessions++
		if session.CreatedAt.After(weekAgo) {
			stats.CurrentWeekSessions++
		}

		// Duration estimate: roughly 2 minutes per answered question.
		duration := len(answers) * 2
		if duration < 1 {
			duration = 1
		}

		items = append(items, HistoryItem{
			ID:              session.ID,
			Date:            humanizeDate(session.CreatedAt, now),
			Title:           fmt.Sprintf("%s interview", session.Field),
			Score:           round1(sessionScore),
			Questions:       len(answers),
			DurationMinutes: duration,
			Field:           session.Field,
			ExperienceLevel: session.ExperienceLevel,
			Status:          session.Status,
			CreatedAt:       session.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if stats.TotalSessions > 0 {
		stats.AverageScore = round1(totalScore / float64(stats.TotalSessions))
	}
	return items, stats, nil
}

func (s *historyService) AnswerDetail(userID, sessionID, questionID uint) (*AnswerDetail, error) {
	session, err := s.repo.GetSessionByID(sessionID)
	if err != nil || session.UserID != userID {
		return nil, apperr.New(apperr.ErrNotFound, "interview session not found")
	}

	question, err := s.repo.GetQuestionByID(questionID)
	if err != nil || question.SessionID != sessionID {
		return nil, apperr.New(apperr.ErrNotFound, "question not found in this session")
	}

	answer, err := s.repo.GetAnswer(sessionID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "this question has not been answered yet")
		}
		return nil, err
	}

	return &AnswerDetail{
		AnswerID:     answer.ID,
		QuestionID:   questionID,
		Question:     question.Content,
		Answer:       answer.Transcript,
		Score:        round1(answer.Score),
		Speaking:     round1(answer.SpeakingScore),
		Content:      round1(answer.ContentScore),
		Relevance:    round1(answer.RelevanceScore),
		Feedback:     answer.Feedback,
		Strengths:    []string(answer.Strengths),
		Improvements: []string(answer.Improvements),
		AudioURL:     answer.AudioURL,
		SessionID:    sessionID,
	}, nil
}

func (s *historyService) UserStats(userID uint) (*UserStats, error) {
	sessions, err := s.repo.GetSessionsByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		FieldDistribution: make(map[string]FieldStat),
		RecentPerformance: []float64{},
		PerformanceTrend:  "stable",
	}

	var completedScoreTotal float64
	for _, session := range sessions {
		stats.TotalSessions++
		switch session.Status {
		case model.SessionCompleted:
			stats.CompletedSessions++
		case model.SessionInProgress:
			stats.OngoingSessions++
		}

		if session.Status != model.SessionCompleted {
			continue
		}

		answers, err := s.repo.GetAnswersBySession(session.ID)
		if err != nil {
			return nil, err
		}
		sessionScore := averageAnswerScore(answers)
		completedScoreTotal += sessionScore

		fs := stats.FieldDistribution[session.Field]
		fs.Count++
		fs.TotalScore += sessionScore
		fs.AverageScore = round2(fs.TotalScore / float64(fs.Count))
		stats.FieldDistribution[session.Field] = fs

		if len(stats.RecentPerformance) < 5 {
			stats.RecentPerformance = append(stats.RecentPerformance, round1(sessionScore))
		}
	}

	if stats.TotalSessions > 0 {
		stats.CompletionRate = round1(float64(stats.CompletedSessions) / float64(stats.TotalSessions) * 100)
	}
	if stats.CompletedSessions > 0 {
		stats.AverageScore = round2(completedScoreTotal / float64(stats.CompletedSessions))
	}
	if len(stats.RecentPerformance) >= 2 &&
		stats.RecentPerformance[0] > stats.RecentPerformance[len(stats.RecentPerformance)-1] {
		stats.PerformanceTrend = "improving"
	}
	return stats, nil
}

func averageAnswerScore(answers []model.InterviewAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	var total float64
	for _, a := range answers {
		total += a.Score
	}
	return total / float64(len(answers))
}

func humanizeDate(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return fmt.Sprintf("Today • %s", t.Format("15:04"))
	case days == 1:
		return fmt.Sprintf("Yesterday • %s", t.Format("15:04"))
	default:
		return fmt.Sprintf("%d days ago • %s", days, t.Format("15:04"))
	}
}
