package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-planner-backend/internal/domains/settings/model"
	"creator-planner-backend/internal/domains/settings/repository"
	"creator-planner-backend/internal/infrastructure/docstore"
	"creator-planner-backend/internal/infrastructure/storage"
)

// memoryCache giả lập Redis: lưu JSON, đếm hit
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

type fixture struct {
	svc   Service
	store *docstore.MemoryStore
	cache *memoryCache
	files *storage.LocalStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore(docstore.DefaultMaxDocumentBytes)
	c := newMemoryCache()
	files := storage.NewLocalStorage(t.TempDir())

	svc := NewSettingsService(repository.NewRepository(store, c), files, storage.NewImageProcessor(16<<20))
	svc.(*settingsService).now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 15, 0, time.UTC) }

	return &fixture{svc: svc, store: store, cache: c, files: files}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func ptr[T any](v T) *T { return &v }

func TestGetSettings_Defaults(t *testing.T) {
	f := newFixture(t)

	s, err := f.svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mohave", s.DefaultFont)
	assert.Equal(t, "text_over_image", s.DefaultTemplate)
	assert.Equal(t, model.Colors{Primary: "#DC2626", Secondary: "#000000"}, s.DefaultColors)
	assert.Equal(t, "18:00", s.Schedule.DeadlineTime)
	assert.True(t, s.Schedule.Reminder60)
	assert.Zero(t, s.Streak.Current)
	assert.Nil(t, s.Streak.LastPublish)
	assert.Empty(t, s.ReferenceFaces)
}

func TestUpdateSettings_MergesAndInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)

	updated, err := f.svc.UpdateSettings(ctx, &model.UpdateSettingsRequest{
		ChannelName:   ptr("Gopher TV"),
		DefaultColors: &model.Colors{Primary: "#fff", Secondary: "#123456"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gopher TV", updated.ChannelName)
	assert.Equal(t, "Mohave", updated.DefaultFont)

	// lần đọc đầu sau khi ghi đi vào store, lần thứ hai trúng cache
	s, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Gopher TV", s.ChannelName)
	hits := f.cache.hits

	s, err = f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#123456", s.DefaultColors.Secondary)
	assert.Equal(t, hits+1, f.cache.hits)
}

func TestUpdateSettings_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  *model.UpdateSettingsRequest
	}{
		{"bad template", &model.UpdateSettingsRequest{DefaultTemplate: ptr("collage")}},
		{"bad color", &model.UpdateSettingsRequest{DefaultColors: &model.Colors{Primary: "red", Secondary: "#000"}}},
		{"bad deadline", &model.UpdateSettingsRequest{Schedule: &model.Schedule{Cadence: "daily", DeadlineTime: "6pm"}}},
		{"bad day", &model.UpdateSettingsRequest{Schedule: &model.Schedule{Cadence: "custom", CustomDays: []string{"funday"}, DeadlineTime: "18:00"}}},
		{"empty font", &model.UpdateSettingsRequest{DefaultFont: ptr("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateSettings(context.Background(), tt.req)
			assert.Equal(t, "INVALID_SETTINGS", model.GetErrorCode(err))
		})
	}
}

func TestUpdateStreak(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.svc.UpdateStreak(ctx, &model.StreakRequest{Action: model.StreakIncrement})
		require.NoError(t, err)
	}
	streak, err := f.svc.UpdateStreak(ctx, &model.StreakRequest{Action: model.StreakReset})
	require.NoError(t, err)
	assert.Equal(t, 0, streak.Current)
	assert.Equal(t, 3, streak.Best)
	require.NotNil(t, streak.LastPublish)

	streak, err = f.svc.UpdateStreak(ctx, &model.StreakRequest{Action: model.StreakIncrement})
	require.NoError(t, err)
	assert.Equal(t, 1, streak.Current)
	assert.Equal(t, 3, streak.Best)

	got, err := f.svc.GetStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, streak.Current, got.Current)

	_, err = f.svc.UpdateStreak(ctx, &model.StreakRequest{Action: "double"})
	assert.Equal(t, "INVALID_SETTINGS", model.GetErrorCode(err))
}

func TestUploadFace_StoresFileAndRecordsFace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	data := pngBytes(t)

	resp, err := f.svc.UploadFace(ctx, "", FaceUpload{Filename: "Ảnh của tôi.png", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "20261019_093015_Anh_cua_toi.png", resp.Filename)
	assert.Equal(t, "Unknown", resp.Face.Name)
	assert.Equal(t, "/uploads/20261019_093015_Anh_cua_toi.png", resp.Face.URL)

	stored, contentType, err := f.svc.GetUpload(ctx, resp.Filename)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
	assert.Equal(t, "image/png", contentType)

	faces, err := f.svc.ListFaces(ctx)
	require.NoError(t, err)
	require.Len(t, faces, 1)

	names, err := f.svc.FaceNames(ctx, []string{resp.Filename, "other.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Unknown"}, names)
}

func TestUploadFace_NamesFileAfterDecodedFormat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))

	// JPEG bytes dưới tên .png
	resp, err := f.svc.UploadFace(ctx, "Me", FaceUpload{Filename: "face.png", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, "20261019_093015_face.jpg", resp.Filename)
	assert.Equal(t, "/uploads/20261019_093015_face.jpg", resp.Face.URL)

	_, contentType, err := f.svc.GetUpload(ctx, resp.Filename)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	// extension đã khớp format thì giữ nguyên tên
	resp, err = f.svc.UploadFace(ctx, "Me", FaceUpload{Filename: "face.JPEG", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, "20261019_093015_face.JPEG", resp.Filename)

	_, contentType, err = f.svc.GetUpload(ctx, resp.Filename)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestUploadFace_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UploadFace(ctx, "x", FaceUpload{})
	assert.Equal(t, "NO_FILE", model.GetErrorCode(err))

	_, err = f.svc.UploadFace(ctx, "x", FaceUpload{Filename: "face.bmp", Data: []byte("BM")})
	assert.Equal(t, "INVALID_FILE_TYPE", model.GetErrorCode(err))

	_, err = f.svc.UploadFace(ctx, "x", FaceUpload{Filename: "face.png", Data: []byte("not an image")})
	assert.Equal(t, "INVALID_FILE_TYPE", model.GetErrorCode(err))

	faces, err := f.svc.ListFaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestDeleteFace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.UploadFace(ctx, "Alex", FaceUpload{Filename: "alex.png", Data: pngBytes(t)})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteFace(ctx, &model.DeleteFaceRequest{Filename: resp.Filename}))

	faces, err := f.svc.ListFaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, faces)

	_, _, err = f.svc.GetUpload(ctx, resp.Filename)
	assert.ErrorIs(t, err, model.ErrFileNotFound)

	// xóa file không tồn tại vẫn thành công
	assert.NoError(t, f.svc.DeleteFace(ctx, &model.DeleteFaceRequest{Filename: "missing.png"}))
}

func TestGetUpload_RejectsTraversal(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.GetUpload(context.Background(), "../secret.png")
	assert.ErrorIs(t, err, model.ErrFileNotFound)
}
