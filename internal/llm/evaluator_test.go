package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise-backend/internal/apperr"
)

const validEvaluationJSON = `{
  "transcript": "I would shard the database",
  "score": 8.5,
  "breakdown": { "speaking": 8.0, "content": 9.0, "relevance": 8.5 },
  "feedback": "good depth",
  "strengths": ["specific", "structured"],
  "improvements": ["mention tradeoffs"]
}`

func TestParseEvaluation(t *testing.T) {
	eval, err := ParseEvaluation(validEvaluationJSON)
	require.NoError(t, err)

	assert.Equal(t, "I would shard the database", eval.Transcript)
	assert.Equal(t, 8.5, eval.Score)
	assert.Equal(t, 9.0, eval.Breakdown.Content)
	assert.Equal(t, "good depth", eval.Feedback)
	assert.Equal(t, []string{"specific", "structured"}, eval.Strengths)
}

func TestParseEvaluationStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + validEvaluationJSON + "\n```"
	eval, err := ParseEvaluation(fenced)
	require.NoError(t, err)
	assert.Equal(t, 8.5, eval.Score)
}

func TestParseEvaluationMissingKeys(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing score", `{"breakdown":{"speaking":1,"content":1,"relevance":1},"feedback":"x"}`},
		{"missing breakdown", `{"score":5,"feedback":"x"}`},
		{"missing feedback", `{"score":5,"breakdown":{"speaking":1,"content":1,"relevance":1}}`},
		{"incomplete breakdown", `{"score":5,"breakdown":{"speaking":1},"feedback":"x"}`},
		{"not json", `the answer was fine`},
		{"non-numeric score", `{"score":"high","breakdown":{"speaking":1,"content":1,"relevance":1},"feedback":"x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEvaluation(tc.raw)
			assert.ErrorIs(t, err, apperr.ErrEvaluationFailed)
		})
	}
}

func TestParseEvaluationClampsScores(t *testing.T) {
	raw := `{"score":14,"breakdown":{"speaking":-2,"content":11,"relevance":5},"feedback":"x"}`
	eval, err := ParseEvaluation(raw)
	require.NoError(t, err)

	assert.Equal(t, ScaleMax, eval.Score)
	assert.Equal(t, 0.0, eval.Breakdown.Speaking)
	assert.Equal(t, ScaleMax, eval.Breakdown.Content)
	assert.Equal(t, 5.0, eval.Breakdown.Relevance)
}

func TestParseEvaluationDefaultsLists(t *testing.T) {
	raw := `{"score":5,"breakdown":{"speaking":5,"content":5,"relevance":5},"feedback":"ok"}`
	eval, err := ParseEvaluation(raw)
	require.NoError(t, err)

	assert.NotNil(t, eval.Strengths)
	assert.NotNil(t, eval.Improvements)
	assert.Empty(t, eval.Strengths)
}

func TestZeroEvaluation(t *testing.T) {
	eval := ZeroEvaluation()
	assert.Zero(t, eval.Score)
	assert.Zero(t, eval.Breakdown)
	assert.Empty(t, eval.Feedback)
	assert.NotNil(t, eval.Strengths)
	assert.NotNil(t, eval.Improvements)
}
