// Package speech adapts an asynchronous speech-to-text HTTP API behind a
// synchronous Transcribe call with bounded polling.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/config"
)

// Transcriber converts a durable audio reference into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL, languageHint string) (string, error)
}

type restTranscriber struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	pollInterval time.Duration
	deadline     time.Duration
}

// NewRESTTranscriber builds a Transcriber over a submit-then-poll REST API.
// The overall deadline caps polling; expiry surfaces as TranscriptionFailed.
func NewRESTTranscriber(cfg config.SpeechConfig) Transcriber {
	poll := time.Duration(cfg.PollMillis) * time.Millisecond
	if poll <= 0 {
		poll = 2 * time.Second
	}
	deadline := time.Duration(cfg.TimeoutSecs) * time.Second
	if deadline <= 0 {
		deadline = 120 * time.Second
	}
	return &restTranscriber{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: poll,
		deadline:     deadline,
	}
}

type transcriptJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func (t *restTranscriber) Transcribe(ctx context.Context, audioURL, languageHint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.deadline)
	defer cancel()

	job, err := t.submit(ctx, audioURL, languageHint)
	if err != nil {
		return "", err
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		switch job.Status {
		case "completed":
			return job.Text, nil
		case "error":
			return "", apperr.Newf(apperr.ErrTranscriptionFailed, "transcription job failed: %s", job.Error)
		}

		select {
		case <-ctx.Done():
			return "", apperr.New(apperr.ErrTranscriptionFailed, "transcription timed out before the job completed")
		case <-ticker.C:
		}

		job, err = t.poll(ctx, job.ID)
		if err != nil {
			return "", err
		}
	}
}

func (t *restTranscriber) submit(ctx context.Context, audioURL, languageHint string) (*transcriptJob, error) {
	body, _ := json.Marshal(map[string]string{
		"audio_url":     audioURL,
		"language_code": languageHint,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/transcript", bytes.NewBuffer(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTranscriptionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", t.apiKey)

	return t.do(req)
}

func (t *restTranscriber) poll(ctx context.Context, jobID string) (*transcriptJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/v2/transcript/"+jobID, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTranscriptionFailed, err)
	}
	req.Header.Set("Authorization", t.apiKey)

	return t.do(req)
}

func (t *restTranscriber) do(req *http.Request) (*transcriptJob, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Newf(apperr.ErrTranscriptionFailed, "speech API returned status %d", resp.StatusCode)
	}

	var job transcriptJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, apperr.Wrap(apperr.ErrTranscriptionFailed, fmt.Errorf("invalid speech API response: %w", err))
	}
	return &job, nil
}
