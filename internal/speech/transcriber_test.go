package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/config"
)

func speechConfig(baseURL string) config.SpeechConfig {
	return config.SpeechConfig{
		Enabled:     true,
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Language:    "en",
		PollMillis:  10,
		TimeoutSecs: 2,
	}
}

func TestTranscribeCompletesAfterPolling(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://cdn.example/a.webm", req["audio_url"])
			assert.Equal(t, "en", req["language_code"])
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "queued"})
		case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/job-1":
			if atomic.AddInt32(&polls, 1) < 3 {
				json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "processing"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "completed", "text": "hello world"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	text, err := NewRESTTranscriber(speechConfig(srv.URL)).Transcribe(context.Background(), "https://cdn.example/a.webm", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
}

func TestTranscribeJobError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "error", "error": "unreadable audio"})
	}))
	defer srv.Close()

	_, err := NewRESTTranscriber(speechConfig(srv.URL)).Transcribe(context.Background(), "https://cdn.example/a.webm", "en")
	assert.ErrorIs(t, err, apperr.ErrTranscriptionFailed)
	assert.Contains(t, err.Error(), "unreadable audio")
}

func TestTranscribeDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "processing"})
	}))
	defer srv.Close()

	cfg := speechConfig(srv.URL)
	cfg.TimeoutSecs = 1

	_, err := NewRESTTranscriber(cfg).Transcribe(context.Background(), "https://cdn.example/a.webm", "en")
	assert.ErrorIs(t, err, apperr.ErrTranscriptionFailed)
	assert.Contains(t, err.Error(), "timed out")
}

func TestTranscribeNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewRESTTranscriber(speechConfig(srv.URL)).Transcribe(context.Background(), "https://cdn.example/a.webm", "en")
	assert.ErrorIs(t, err, apperr.ErrTranscriptionFailed)
}
