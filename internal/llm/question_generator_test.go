package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prepwise-backend/internal/model"
)

func TestTrimGeneratedText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  What is a goroutine?  ", "What is a goroutine?"},
		{`"What is a goroutine?"`, "What is a goroutine?"},
		{"'What is a goroutine?'", "What is a goroutine?"},
		{`" Padded inside quotes "`, "Padded inside quotes"},
		{`"unbalanced`, `"unbalanced`},
		{"", ""},
		{`"`, `"`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TrimGeneratedText(tc.in), "input %q", tc.in)
	}
}

func TestBuildQuestionContext(t *testing.T) {
	session := &model.InterviewSession{
		Field:             "Data Engineering",
		Specialization:    "Streaming",
		ExperienceLevel:   "senior",
		DifficultySetting: "hard",
	}

	prompt := BuildQuestionContext(session, nil)
	assert.Contains(t, prompt, "Data Engineering / Streaming")
	assert.Contains(t, prompt, "Candidate experience: senior")
	assert.Contains(t, prompt, "Difficulty: hard")
	assert.NotContains(t, prompt, "Questions already asked")
}

func TestBuildQuestionContextRecentWindow(t *testing.T) {
	session := &model.InterviewSession{Field: "SRE", Specialization: "Observability"}
	recent := []string{"q1", "q2", "q3", "q4"}

	prompt := BuildQuestionContext(session, recent)
	assert.Contains(t, prompt, "q1 | q2 | q3")
	assert.NotContains(t, prompt, "q4")
	assert.Contains(t, prompt, "Do not repeat a question already asked")
}
