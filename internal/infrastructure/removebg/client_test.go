package removebg

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creator-planner-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveBackground(t *testing.T) {
	input := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/removebg", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("X-Api-Key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, input, r.PostForm.Get("image_file_b64"))
		assert.Equal(t, "auto", r.PostForm.Get("size"))

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	client := NewClient(config.RemoveBGConfig{APIKey: "key-123", BaseURL: srv.URL, Timeout: time.Second})
	require.True(t, client.Configured())

	out, err := client.RemoveBackground(context.Background(), "data:image/jpeg;base64,"+input)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("png-bytes")), out)
}

func TestRemoveBackground_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"errors":[{"title":"Insufficient credits"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.RemoveBGConfig{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second})
	_, err := client.RemoveBackground(context.Background(), base64.StdEncoding.EncodeToString([]byte("x")))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.False(t, IsRetryable(err))
}

func TestStripDataURL(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("abc"))

	got, err := StripDataURL("data:image/png;base64," + raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = StripDataURL(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = StripDataURL("data:image/png;base64")
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = StripDataURL("not base64 !!")
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = StripDataURL("")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&APIError{StatusCode: 503}))
	assert.True(t, IsRetryable(&APIError{StatusCode: 429}))
	assert.False(t, IsRetryable(&APIError{StatusCode: 400}))
	assert.False(t, IsRetryable(ErrInvalidImage))
	assert.False(t, IsRetryable(context.Canceled))
}
