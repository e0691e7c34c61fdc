package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/model"
)

// TranscriptEntry is one question/answer pair in session issuance order.
type TranscriptEntry struct {
	QuestionID uint    `json:"question_id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Feedback   string  `json:"feedback"`
	Score      float64 `json:"score"`
	AudioURL   string  `json:"audio_url,omitempty"`
}

// Summarizer produces the narrative session summary.
type Summarizer struct {
	client  Client
	timeout time.Duration
}

func NewSummarizer(client Client) *Summarizer {
	return &Summarizer{client: client, timeout: 30 * time.Second}
}

// Summarize delegates to the language capability with the full ordered
// transcript and session configuration embedded in the prompt.
func (s *Summarizer) Summarize(ctx context.Context, transcript []TranscriptEntry, session *model.InterviewSession) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var conv strings.Builder
	for i, t := range transcript {
		fmt.Fprintf(&conv, "Question %d: %s\nAnswer: %s\nScore: %.1f/%.0f\nFeedback: %s\n\n",
			i+1, t.Question, t.Answer, t.Score, ScaleMax, t.Feedback)
	}

	prompt := fmt.Sprintf(`You are a career coach. Summarize this interview practice session.

Session information:
- Field: %s / %s
- Experience level: %s
- Difficulty: %s

Interview content:
%s
Summarize:
1. Overview: an overall assessment of the session
2. Strengths: what the candidate did well
3. Areas to improve: what needs development
4. Recommendations: concrete suggestions to improve interview skills
5. Overall grade: from A+ to D

Return a concise but complete summary.`,
		session.Field, session.Specialization, session.ExperienceLevel,
		session.DifficultySetting, conv.String())

	summary, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrGenerationFailed, err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", apperr.New(apperr.ErrGenerationFailed, "model returned empty summary")
	}
	return summary, nil
}
