package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/config"
)

func testStore() *CloudinaryStore {
	return NewCloudinaryStore(config.CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    "interview_answers",
	})
}

func TestStoreAudioRejectsNonAudio(t *testing.T) {
	_, err := testStore().StoreAudio(context.Background(), []byte("data"), "video/mp4")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStoreAudioRejectsEmpty(t *testing.T) {
	_, err := testStore().StoreAudio(context.Background(), nil, "audio/webm")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStoreAudioRejectsOversized(t *testing.T) {
	oversized := make([]byte, MaxAudioBytes+1)
	_, err := testStore().StoreAudio(context.Background(), oversized, "audio/webm")
	assert.ErrorIs(t, err, apperr.ErrPayloadTooLarge)
}

func TestStoreAudioUploads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "interview_answers", r.FormValue("folder"))
		assert.NotEmpty(t, r.FormValue("public_id"))
		assert.NotEmpty(t, r.FormValue("timestamp"))

		signed := fmt.Sprintf("folder=%s&public_id=%s&timestamp=%s",
			r.FormValue("folder"), r.FormValue("public_id"), r.FormValue("timestamp"))
		sum := sha1.Sum([]byte(signed + "secret"))
		assert.Equal(t, hex.EncodeToString(sum[:]), r.FormValue("signature"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.cloudinary.com/demo/video/upload/answer.webm",
		})
	}))
	defer srv.Close()

	store := testStore()
	store.uploadURL = srv.URL
	store.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	url, err := store.StoreAudio(context.Background(), []byte("webm bytes"), "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/video/upload/answer.webm", url)
}

func TestStoreAudioUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := testStore()
	store.uploadURL = srv.URL

	_, err := store.StoreAudio(context.Background(), []byte("webm bytes"), "audio/webm")
	assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
}

func TestStoreAudioNoURLInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	store := testStore()
	store.uploadURL = srv.URL

	_, err := store.StoreAudio(context.Background(), []byte("webm bytes"), "audio/webm")
	assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
}
