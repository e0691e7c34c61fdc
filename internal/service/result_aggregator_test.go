package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prepwise-backend/internal/model"
)

func answersWithScores(scores ...float64) []model.InterviewAnswer {
	out := make([]model.InterviewAnswer, 0, len(scores))
	for _, s := range scores {
		out = append(out, model.InterviewAnswer{Score: s})
	}
	return out
}

func TestAggregateAnswers(t *testing.T) {
	agg := AggregateAnswers(answersWithScores(8, 6, 7))

	assert.Equal(t, 21.0, agg.TotalScore)
	assert.Equal(t, 30.0, agg.MaxPossibleScore)
	assert.Equal(t, 7.0, agg.AverageScore)
	assert.Equal(t, 70.0, agg.ScorePercentage)
	assert.Equal(t, "Fair (B+)", agg.PerformanceLevel)
}

func TestAggregateAnswersOrderInvariant(t *testing.T) {
	a := AggregateAnswers(answersWithScores(3, 9, 5.5))
	b := AggregateAnswers(answersWithScores(5.5, 3, 9))
	assert.Equal(t, a, b)
}

func TestAggregateAnswersEmpty(t *testing.T) {
	agg := AggregateAnswers(nil)
	assert.Zero(t, agg.TotalScore)
	assert.Zero(t, agg.MaxPossibleScore)
	assert.Equal(t, "Needs Improvement (D)", agg.PerformanceLevel)
}

func TestAggregateAnswersRounding(t *testing.T) {
	agg := AggregateAnswers(answersWithScores(7, 7, 6))

	assert.Equal(t, 6.67, agg.AverageScore)
	assert.Equal(t, 66.7, agg.ScorePercentage)
}

func TestAggregateAnswersTierMatchesReportedPercentage(t *testing.T) {
	// Raw 89.96% rounds up to the reported 90.0, so the tier must be the
	// top band rather than the one the unrounded value falls in.
	agg := AggregateAnswers(answersWithScores(8.98, 9, 9, 9, 9))

	assert.Equal(t, 90.0, agg.ScorePercentage)
	assert.Equal(t, "Excellent (A+)", agg.PerformanceLevel)
}

func TestPerformanceLevelLadder(t *testing.T) {
	cases := []struct {
		percentage float64
		want       string
	}{
		{100, "Excellent (A+)"},
		{90, "Excellent (A+)"},
		{89.999, "Good (A)"},
		{80, "Good (A)"},
		{70, "Fair (B+)"},
		{60, "Average (B)"},
		{50, "Below Average (C)"},
		{49.9, "Needs Improvement (D)"},
		{0, "Needs Improvement (D)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PerformanceLevel(tc.percentage), "percentage %v", tc.percentage)
	}
}
