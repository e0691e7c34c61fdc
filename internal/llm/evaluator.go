package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prepwise-backend/internal/apperr"
)

// ScaleMax is the maximum score on the rubric scale. The evaluator and the
// result aggregation must agree on this value.
const ScaleMax = 10.0

// Breakdown holds per-dimension rubric scores on the 0-10 scale.
type Breakdown struct {
	Speaking  float64 `json:"speaking"`
	Content   float64 `json:"content"`
	Relevance float64 `json:"relevance"`
}

// Evaluation is the structured result of scoring one answer.
type Evaluation struct {
	Transcript   string    `json:"transcript"`
	Score        float64   `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
}

// ZeroEvaluation returns the fallback record persisted when evaluation is
// unavailable: all scores zero, empty feedback and lists.
func ZeroEvaluation() *Evaluation {
	return &Evaluation{
		Strengths:    []string{},
		Improvements: []string{},
	}
}

// Evaluator scores answers against the interview rubric.
type Evaluator struct {
	client  Client
	timeout time.Duration
}

func NewEvaluator(client Client) *Evaluator {
	return &Evaluator{client: client, timeout: 60 * time.Second}
}

// EvaluateText scores a text answer to a question.
func (e *Evaluator) EvaluateText(ctx context.Context, question, answer string) (*Evaluation, error) {
	prompt := fmt.Sprintf(`You are an interview assessor. Evaluate the candidate's answer to the question below.

Question: %s
Answer: %s

Requirements:
- Score the answer overall on a 0-10 scale.
- Score three criteria (0-10 each): speaking, content, relevance.
- Write short, concise feedback.
- List strengths (3-5 items) and improvements (3-5 items).
%s`, question, answer, evaluationJSONContract)

	return e.evaluate(ctx, prompt, answer)
}

// EvaluateAudio scores an answer directly from its durable audio reference,
// producing a transcript as part of the evaluation.
func (e *Evaluator) EvaluateAudio(ctx context.Context, question, audioURL string) (*Evaluation, error) {
	prompt := fmt.Sprintf(`You are an interview assessor. Listen to the candidate's audio answer at the URL below and evaluate it against the question.

Question: %s
Audio URL: %s

Requirements:
- Produce a text transcript of the answer in the audio.
- Score the answer overall on a 0-10 scale.
- Score three criteria (0-10 each): speaking, content, relevance.
- Write short, concise feedback.
- List strengths (3-5 items) and improvements (3-5 items).
%s`, question, audioURL, evaluationJSONContract)

	return e.evaluate(ctx, prompt, "")
}

const evaluationJSONContract = `
RETURN VALID JSON ONLY, with exactly this structure and no extra text:
{
  "transcript": "text transcript of the answer",
  "score": 8.5,
  "breakdown": { "speaking": 8.0, "content": 9.0, "relevance": 8.5 },
  "feedback": "short feedback on the answer",
  "strengths": ["strength 1", "strength 2", "strength 3"],
  "improvements": ["improvement 1", "improvement 2", "improvement 3"]
}
Do not wrap the JSON in markdown code blocks.`

func (e *Evaluator) evaluate(ctx context.Context, prompt, fallbackTranscript string) (*Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrEvaluationFailed, err)
	}

	eval, err := ParseEvaluation(raw)
	if err != nil {
		return nil, err
	}
	if eval.Transcript == "" {
		eval.Transcript = fallbackTranscript
	}
	return eval, nil
}

// ParseEvaluation parses and validates the evaluator's JSON contract. Known
// code-fence wrapping is stripped before parsing; anything that still fails
// structural validation is a hard EvaluationFailed, never a silent default.
func ParseEvaluation(raw string) (*Evaluation, error) {
	cleaned := CleanJSONBlock(raw)

	var parsed struct {
		Transcript *string  `json:"transcript"`
		Score      *float64 `json:"score"`
		Breakdown  *struct {
			Speaking  *float64 `json:"speaking"`
			Content   *float64 `json:"content"`
			Relevance *float64 `json:"relevance"`
		} `json:"breakdown"`
		Feedback     *string  `json:"feedback"`
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, apperr.Wrap(apperr.ErrEvaluationFailed, fmt.Errorf("malformed evaluation JSON: %w", err))
	}

	if parsed.Score == nil || parsed.Breakdown == nil || parsed.Feedback == nil {
		return nil, apperr.New(apperr.ErrEvaluationFailed, "evaluation response missing required keys")
	}
	if parsed.Breakdown.Speaking == nil || parsed.Breakdown.Content == nil || parsed.Breakdown.Relevance == nil {
		return nil, apperr.New(apperr.ErrEvaluationFailed, "evaluation breakdown missing required scores")
	}

	eval := &Evaluation{
		Score: clampScore(*parsed.Score),
		Breakdown: Breakdown{
			Speaking:  clampScore(*parsed.Breakdown.Speaking),
			Content:   clampScore(*parsed.Breakdown.Content),
			Relevance: clampScore(*parsed.Breakdown.Relevance),
		},
		Feedback:     *parsed.Feedback,
		Strengths:    parsed.Strengths,
		Improvements: parsed.Improvements,
	}
	if parsed.Transcript != nil {
		eval.Transcript = *parsed.Transcript
	}
	if eval.Strengths == nil {
		eval.Strengths = []string{}
	}
	if eval.Improvements == nil {
		eval.Improvements = []string{}
	}
	return eval, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > ScaleMax {
		return ScaleMax
	}
	return v
}
