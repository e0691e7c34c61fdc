package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/model"
)

func seedCompletedSession(repo *fakeInterviewRepo, userID uint, field string, scores ...float64) *model.InterviewSession {
	session := &model.InterviewSession{
		UserID:          userID,
		Field:           field,
		Specialization:  "General",
		ExperienceLevel: "mid",
		TimeLimit:       30,
		QuestionLimit:   len(scores),
		Status:          model.SessionCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	repo.CreateSession(session)
	for _, score := range scores {
		q := &model.InterviewQuestion{SessionID: session.ID, Content: "q"}
		repo.mu.Lock()
		q.ID = repo.id()
		repo.questions = append(repo.questions, *q)
		repo.mu.Unlock()
		repo.SaveAnswer(&model.InterviewAnswer{
			SessionID:  session.ID,
			QuestionID: q.ID,
			Transcript: "a",
			Score:      score,
		})
	}
	return session
}

func TestHistoryAggregatesPerSession(t *testing.T) {
	repo := newFakeInterviewRepo()
	seedCompletedSession(repo, 1, "Backend", 8, 6)
	seedCompletedSession(repo, 1, "Frontend", 4)
	seedCompletedSession(repo, 2, "Backend", 10)

	items, stats, err := NewHistoryService(repo).History(1)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2, stats.CurrentWeekSessions)
	// Session averages are 7.0 and 4.0.
	assert.Equal(t, 5.5, stats.AverageScore)
	for _, item := range items {
		assert.GreaterOrEqual(t, item.DurationMinutes, 1)
		assert.NotEmpty(t, item.Date)
	}
}

func TestAnswerDetailLookup(t *testing.T) {
	repo := newFakeInterviewRepo()
	session := seedCompletedSession(repo, 1, "Backend", 7.5)
	questions, err := repo.GetQuestionsBySession(session.ID)
	require.NoError(t, err)
	questionID := questions[0].ID

	svc := NewHistoryService(repo)

	detail, err := svc.AnswerDetail(1, session.ID, questionID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, detail.Score)
	assert.Equal(t, "a", detail.Answer)

	_, err = svc.AnswerDetail(2, session.ID, questionID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.AnswerDetail(1, session.ID, questionID+100)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUserStatsDistributionAndTrend(t *testing.T) {
	repo := newFakeInterviewRepo()
	seedCompletedSession(repo, 1, "Backend", 9)
	seedCompletedSession(repo, 1, "Backend", 5)
	seedCompletedSession(repo, 1, "Frontend", 7)
	repo.CreateSession(&model.InterviewSession{
		UserID: 1, Field: "Backend", Status: model.SessionInProgress, CreatedAt: time.Now().UTC(),
	})

	stats, err := NewHistoryService(repo).UserStats(1)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalSessions)
	assert.Equal(t, 3, stats.CompletedSessions)
	assert.Equal(t, 1, stats.OngoingSessions)
	assert.Equal(t, 75.0, stats.CompletionRate)
	assert.Equal(t, 7.0, stats.AverageScore)

	backend := stats.FieldDistribution["Backend"]
	assert.Equal(t, 2, backend.Count)
	assert.Equal(t, 7.0, backend.AverageScore)
	assert.Len(t, stats.RecentPerformance, 3)
}

func TestHumanizeDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	today := humanizeDate(time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), now)
	assert.Contains(t, today, "Today")

	yesterday := humanizeDate(now.Add(-25*time.Hour), now)
	assert.Contains(t, yesterday, "Yesterday")

	older := humanizeDate(now.Add(-5*24*time.Hour), now)
	assert.Contains(t, older, "5 days ago")
}
