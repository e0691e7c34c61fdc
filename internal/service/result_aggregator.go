package service

import (
	"math"

	"prepwise-backend/internal/llm"
	"prepwise-backend/internal/model"
)

// Aggregate holds session-level score statistics derived from answers.
type Aggregate struct {
	TotalScore       float64
	MaxPossibleScore float64
	AverageScore     float64
	ScorePercentage  float64
	PerformanceLevel string
}

// AggregateAnswers computes session statistics on the 0-10 rubric scale.
// The result is invariant to answer order.
func AggregateAnswers(answers []model.InterviewAnswer) Aggregate {
	if len(answers) == 0 {
		return Aggregate{PerformanceLevel: PerformanceLevel(0)}
	}

	var total float64
	for _, a := range answers {
		total += a.Score
	}
	maxPossible := float64(len(answers)) * llm.ScaleMax
	average := total / float64(len(answers))
	percentage := total / maxPossible * 100
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}

	// The tier is derived from the rounded percentage so the reported
	// number and the band it falls in always agree.
	rounded := round1(percentage)

	return Aggregate{
		TotalScore:       total,
		MaxPossibleScore: maxPossible,
		AverageScore:     round2(average),
		ScorePercentage:  rounded,
		PerformanceLevel: PerformanceLevel(rounded),
	}
}

// PerformanceLevel maps a score percentage onto the six-band ladder. Bands
// are closed on the lower bound: exactly 90 is the top tier.
func PerformanceLevel(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent (A+)"
	case percentage >= 80:
		return "Good (A)"
	case percentage >= 70:
		return "Fair (B+)"
	case percentage >= 60:
		return "Average (B)"
	case percentage >= 50:
		return "Below Average (C)"
	default:
		return "Needs Improvement (D)"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
