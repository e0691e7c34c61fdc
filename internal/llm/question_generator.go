package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/model"
)

// QuestionGenerator produces interview questions from session context. It
// performs no retries; callers decide retry policy.
type QuestionGenerator struct {
	client  Client
	timeout time.Duration
}

func NewQuestionGenerator(client Client) *QuestionGenerator {
	return &QuestionGenerator{client: client, timeout: 30 * time.Second}
}

// Generate builds a context-aware prompt from the session configuration plus
// up to the 3 most recently issued questions and returns the next question
// text, trimmed of surrounding quotes and whitespace.
func (g *QuestionGenerator) Generate(ctx context.Context, session *model.InterviewSession, recent []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := BuildQuestionContext(session, recent)

	text, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrGenerationFailed, err)
	}

	question := TrimGeneratedText(text)
	if question == "" {
		return "", apperr.New(apperr.ErrGenerationFailed, "model returned empty question text")
	}
	return question, nil
}

// BuildQuestionContext renders the natural-language generation context for a
// session. Recent questions are included to discourage exact repeats; this is
// not a hard dedup guarantee.
func BuildQuestionContext(session *model.InterviewSession, recent []string) string {
	var b strings.Builder
	b.WriteString("You are an experienced interviewer. Create one interview question for the following context:\n\n")
	fmt.Fprintf(&b, "Field: %s / %s\n", session.Field, session.Specialization)
	fmt.Fprintf(&b, "Candidate experience: %s\n", session.ExperienceLevel)
	fmt.Fprintf(&b, "Difficulty: %s\n", session.DifficultySetting)

	if len(recent) > 0 {
		if len(recent) > 3 {
			recent = recent[:3]
		}
		fmt.Fprintf(&b, "\nQuestions already asked: %s\n", strings.Join(recent, " | "))
		b.WriteString("Do not repeat a question already asked.\n")
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("- The question must be clear and appropriate for the position\n")
	b.WriteString("- Focus on practical skills and working experience\n")
	b.WriteString("- Open-ended, so the candidate can answer in detail\n")
	b.WriteString("\nReturn only the question, no explanation.\n")
	return b.String()
}

// TrimGeneratedText strips whitespace and one layer of surrounding quote
// characters from model output.
func TrimGeneratedText(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 {
		if (strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`)) ||
			(strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'")) {
			text = text[1 : len(text)-1]
		}
	}
	return strings.TrimSpace(text)
}
