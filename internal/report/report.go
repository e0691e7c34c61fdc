package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"prepwise-backend/internal/service"
)

// Render produces a downloadable PDF report for a finished session.
func Render(result *service.SessionResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 16)
	pdf.AddPage()

	pdf.Cell(40, 10, "Interview Practice Report")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Session #%d", result.SessionID))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Field: %s (%s)", result.Stats.Field, result.Stats.ExperienceLevel))
	pdf.Ln(7)
	if result.Stats.Specialization != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Specialization: %s", result.Stats.Specialization))
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Difficulty: %s", result.Stats.Difficulty))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Overall Performance")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Score: %.1f / %.0f (%.1f%%)",
		result.TotalScore, result.MaxPossibleScore, result.ScorePercentage))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Average per answer: %.2f", result.AverageScore))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Performance level: %s", result.PerformanceLevel))
	pdf.Ln(12)

	if result.Summary != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Coach Summary")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, result.Summary, "", "L", false)
		pdf.Ln(6)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Questions and Answers")
	pdf.Ln(9)

	for i, entry := range result.Transcript {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("Q%d. %s", i+1, entry.Question), "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Arial", "", 11)
		answer := entry.Answer
		if answer == "" {
			answer = "(no answer recorded)"
		}
		pdf.MultiCell(0, 6, answer, "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Score: %.1f", entry.Score))
		pdf.Ln(6)
		if entry.Feedback != "" {
			pdf.MultiCell(0, 5, entry.Feedback, "", "L", false)
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}
	return buf.Bytes(), nil
}
