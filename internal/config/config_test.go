package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv đưa các biến liên quan về rỗng để Load dùng default
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORE_BACKEND", "THUMBNAIL_BACKEND", "STORE_MAX_DOCUMENT_BYTES", "THUMBNAIL_MAX_BYTES",
		"MINIO_ENABLED", "OPENAI_IMAGE_MODELS", "OPENAI_IMAGE_TIMEOUT",
		"RETRY_MAX_ATTEMPTS", "RETRY_BACKOFF_BASE", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, ThumbnailBackendDocstore, cfg.Store.ThumbnailBackend)
	assert.Equal(t, 1_048_576, cfg.Store.MaxDocumentBytes)
	assert.Equal(t, 0, cfg.Store.ThumbnailMaxBytes)
	assert.Equal(t, []string{"dall-e-3", "dall-e-2"}, cfg.OpenAI.ImageModels)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2.0, cfg.Retry.Base)
}

func TestThumbnailChainBudget_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	// 2 models × (3 × 120s + backoff 2s + 3s)
	assert.Equal(t, 12*time.Minute+10*time.Second, cfg.ThumbnailChainBudget())
	assert.Greater(t, cfg.WriteTimeout(), cfg.ThumbnailChainBudget())
}

func TestThumbnailChainBudget_FollowsConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_IMAGE_MODELS", "dall-e-2")
	t.Setenv("RETRY_MAX_ATTEMPTS", "1")
	t.Setenv("OPENAI_IMAGE_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	// một attempt thì không có backoff
	assert.Equal(t, 10*time.Second, cfg.ThumbnailChainBudget())
	assert.Greater(t, cfg.WriteTimeout(), cfg.ThumbnailChainBudget())
}

func TestWriteTimeout_CoversLongerChains(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_IMAGE_MODELS", "dall-e-3,dall-e-2,gpt-image-1")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_BACKOFF_BASE", "3")

	cfg, err := Load()
	require.NoError(t, err)

	// backoff 3^0..3^3 + jitter 1 mỗi lần = 2+4+10+28
	perModel := 5*120*time.Second + 44*time.Second
	assert.Equal(t, 3*perModel, cfg.ThumbnailChainBudget())
	assert.Greater(t, cfg.WriteTimeout(), cfg.ThumbnailChainBudget())
}

func TestValidate_ThumbnailMaxBytes(t *testing.T) {
	clearEnv(t)

	t.Setenv("THUMBNAIL_MAX_BYTES", "-1")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("THUMBNAIL_MAX_BYTES", "1024")
	_, err = Load()
	assert.ErrorContains(t, err, "THUMBNAIL_MAX_BYTES must exceed STORE_MAX_DOCUMENT_BYTES")

	t.Setenv("THUMBNAIL_MAX_BYTES", "8388608")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8_388_608, cfg.Store.ThumbnailMaxBytes)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store backend", map[string]string{"STORE_BACKEND": "mongo"}},
		{"minio thumbnails without minio", map[string]string{"THUMBNAIL_BACKEND": "minio", "MINIO_ENABLED": "false"}},
		{"base not above one", map[string]string{"RETRY_BACKOFF_BASE": "1"}},
		{"no attempts", map[string]string{"RETRY_MAX_ATTEMPTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
