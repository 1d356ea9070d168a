package fonts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creator-planner-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webfonts", r.URL.Path)
		assert.Equal(t, "font-key", r.URL.Query().Get("key"))
		assert.Equal(t, "popularity", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"family":"Roboto","category":"sans-serif","variants":["regular"]},{"family":"Mohave","category":"sans-serif"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.FontsConfig{APIKey: "font-key", BaseURL: srv.URL, Timeout: time.Second})
	families, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, families, 2)
	assert.Equal(t, "Roboto", families[0].Family)
	assert.Equal(t, []string{"regular"}, families[0].Variants)
}

func TestList_Errors(t *testing.T) {
	status := http.StatusForbidden
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.FontsConfig{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second})

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.False(t, IsRetryable(err))

	status = http.StatusBadGateway
	_, err = client.List(context.Background())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}
