// Package storage provides the durable blob store for audio answers.
package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/config"
)

// MaxAudioBytes caps uploaded audio at 50 MiB. Oversized input is rejected
// before any upload is attempted.
const MaxAudioBytes = 50 * 1024 * 1024

// BlobStore persists audio bytes and returns a durable reference URL.
type BlobStore interface {
	StoreAudio(ctx context.Context, data []byte, contentType string) (string, error)
}

// CloudinaryStore implements BlobStore against the Cloudinary upload API.
// Cloudinary serves audio under the video resource type.
type CloudinaryStore struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	uploadURL string
	client    *http.Client
	now       func() time.Time
}

func NewCloudinaryStore(cfg config.CloudinaryConfig) *CloudinaryStore {
	folder := cfg.Folder
	if folder == "" {
		folder = "interview-audio"
	}
	return &CloudinaryStore{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    folder,
		uploadURL: fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/video/upload", cfg.CloudName),
		client:    &http.Client{Timeout: 60 * time.Second},
		now:       time.Now,
	}
}

func (s *CloudinaryStore) StoreAudio(ctx context.Context, data []byte, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "audio/") {
		return "", apperr.Newf(apperr.ErrValidation, "unsupported content type %q, expected audio", contentType)
	}
	if len(data) > MaxAudioBytes {
		return "", apperr.Newf(apperr.ErrPayloadTooLarge, "audio file too large (%d bytes, max %d)", len(data), MaxAudioBytes)
	}
	if len(data) == 0 {
		return "", apperr.New(apperr.ErrValidation, "audio file is empty")
	}

	timestamp := s.now().UTC()
	publicID := fmt.Sprintf("answer_%s_%s", timestamp.Format("20060102_150405"), uuid.New().String()[:8])

	params := map[string]string{
		"folder":    s.folder,
		"public_id": publicID,
		"timestamp": fmt.Sprintf("%d", timestamp.Unix()),
	}
	params["signature"] = s.sign(params)
	params["api_key"] = s.apiKey

	body, formContentType, err := buildUploadForm(params, data)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, body)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	req.Header.Set("Content-Type", formContentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Newf(apperr.ErrStorageUnavailable, "upload returned status %d", resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", apperr.New(apperr.ErrStorageUnavailable, "upload returned no URL")
}

// sign computes the Cloudinary request signature: SHA-1 over the sorted
// parameter string concatenated with the API secret.
func (s *CloudinaryStore) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}

func buildUploadForm(params map[string]string, data []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range params {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	part, err := writer.CreateFormFile("file", "answer.audio")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
