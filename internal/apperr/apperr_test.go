package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		kind error
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrNoAnswers, http.StatusBadRequest},
		{ErrInvalidState, http.StatusBadRequest},
		{ErrBudgetExhausted, http.StatusBadRequest},
		{ErrExpired, http.StatusBadRequest},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrGenerationFailed, http.StatusServiceUnavailable},
		{ErrTranscriptionFailed, http.StatusServiceUnavailable},
		{ErrEvaluationFailed, http.StatusServiceUnavailable},
		{ErrStorageUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(New(tc.kind, "details")), "kind %v", tc.kind)
	}
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestKindAndMessage(t *testing.T) {
	err := New(ErrBudgetExhausted, "question limit reached")
	assert.Equal(t, "budget_exhausted", Kind(err))
	assert.Equal(t, "budget_exhausted: question limit reached", Message(err))

	wrapped := Wrap(ErrEvaluationFailed, errors.New("upstream 500"))
	assert.Equal(t, "evaluation_failed", Kind(wrapped))
	assert.True(t, errors.Is(wrapped, ErrEvaluationFailed))
}

func TestInternalErrorsNeverLeak(t *testing.T) {
	err := errors.New("pq: connection refused to 10.0.0.3")
	assert.Equal(t, "internal_error", Kind(err))
	assert.Equal(t, "internal server error", Message(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrValidation, nil))
}
