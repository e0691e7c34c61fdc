// Package apperr defines the stable error kinds surfaced by the API. Services
// wrap one of these sentinels; controllers translate them to HTTP statuses
// without exposing internals.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation          = errors.New("validation_error")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNotFound            = errors.New("not_found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidState        = errors.New("invalid_state")
	ErrBudgetExhausted     = errors.New("budget_exhausted")
	ErrExpired             = errors.New("expired")
	ErrPayloadTooLarge     = errors.New("payload_too_large")
	ErrGenerationFailed    = errors.New("generation_failed")
	ErrTranscriptionFailed = errors.New("transcription_failed")
	ErrEvaluationFailed    = errors.New("evaluation_failed")
	ErrStorageUnavailable  = errors.New("storage_unavailable")
	ErrNoAnswers           = errors.New("no_answers")
)

// New returns an error of the given kind carrying a human-readable message.
func New(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// Newf is New with formatting.
func Newf(kind error, format string, v ...interface{}) error {
	return New(kind, fmt.Sprintf(format, v...))
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// Kind returns the machine-readable kind token for an error, or
// "internal_error" when the error carries no known kind.
func Kind(err error) string {
	for _, kind := range []error{
		ErrValidation, ErrUnauthenticated, ErrNotFound, ErrForbidden,
		ErrInvalidState, ErrBudgetExhausted, ErrExpired, ErrPayloadTooLarge,
		ErrGenerationFailed, ErrTranscriptionFailed, ErrEvaluationFailed,
		ErrStorageUnavailable, ErrNoAnswers,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal_error"
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNoAnswers):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrBudgetExhausted), errors.Is(err, ErrExpired):
		return http.StatusBadRequest
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrGenerationFailed), errors.Is(err, ErrTranscriptionFailed),
		errors.Is(err, ErrEvaluationFailed), errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message: the error text for known kinds, a
// generic message otherwise so internals never leak.
func Message(err error) string {
	if Kind(err) == "internal_error" {
		return "internal server error"
	}
	return err.Error()
}
