package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prepwise-backend/internal/apperr"
)

// promptCompleter is the free-form text capability the assistant relies on.
type promptCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AssistantService answers ad-hoc interview-preparation questions. It is
// scoped to interview topics by the prompt; anything else gets a polite
// refusal from the model.
type AssistantService interface {
	Chat(ctx context.Context, question, previousAnswer string) (string, error)
}

type assistantService struct {
	client  promptCompleter
	timeout time.Duration
}

func NewAssistantService(client promptCompleter) AssistantService {
	return &assistantService{client: client, timeout: 30 * time.Second}
}

func (s *assistantService) Chat(ctx context.Context, question, previousAnswer string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperr.New(apperr.ErrValidation, "question is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.client.Complete(ctx, buildAssistantPrompt(question, previousAnswer))
	if err != nil {
		return "", apperr.Wrap(apperr.ErrGenerationFailed, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", apperr.New(apperr.ErrGenerationFailed, "model returned an empty reply")
	}
	return answer, nil
}

func buildAssistantPrompt(question, previousAnswer string) string {
	var b strings.Builder
	b.WriteString("You are an interview-preparation assistant. Only answer questions about ")
	b.WriteString("interviews, recruiting, CVs and job-application skills. If the question is ")
	b.WriteString("outside those topics, reply: \"Sorry, I can only help with interview topics: ")
	b.WriteString("CV preparation, interview skills and recruiting questions.\"\n")
	if previousAnswer != "" {
		fmt.Fprintf(&b, "Previous answer: %s\n", previousAnswer)
	}
	fmt.Fprintf(&b, "Question: %s\n", question)
	b.WriteString("Reply briefly and helpfully.")
	return b.String()
}
