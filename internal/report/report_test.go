package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise-backend/internal/llm"
	"prepwise-backend/internal/service"
)

func TestRenderProducesPDF(t *testing.T) {
	result := &service.SessionResult{
		SessionID:        42,
		Summary:          "Strong technical depth, work on pacing.",
		TotalScore:       16,
		MaxPossibleScore: 20,
		AverageScore:     8,
		ScorePercentage:  80,
		PerformanceLevel: "Good (A)",
		Transcript: []llm.TranscriptEntry{
			{QuestionID: 1, Question: "Tell me about a hard bug.", Answer: "It was a race condition.", Score: 8, Feedback: "good detail"},
			{QuestionID: 2, Question: "How do you test?", Score: 8},
		},
		Stats: service.SessionStats{
			Field:           "Software Engineering",
			Specialization:  "Backend",
			ExperienceLevel: "mid",
			Difficulty:      "medium",
			TimeLimit:       30,
		},
	}

	data, err := Render(result)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
