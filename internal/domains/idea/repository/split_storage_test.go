package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"creator-planner-backend/internal/domains/idea/model"
	"creator-planner-backend/internal/infrastructure/cache"
	"creator-planner-backend/internal/infrastructure/docstore"
	"creator-planner-backend/internal/shared/errkind"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeThumbnails is an in-memory ThumbnailStore whose writes can be made to fail.
type fakeThumbnails struct {
	mu      sync.Mutex
	data    map[string]string
	failPut bool
	failGet bool
	puts    int
	deletes int
}

func newFakeThumbnails() *fakeThumbnails {
	return &fakeThumbnails{data: map[string]string{}}
}

func (f *fakeThumbnails) Put(ctx context.Context, ideaID, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPut {
		return errors.New("secondary store unavailable")
	}
	f.data[ideaID] = payload
	return nil
}

func (f *fakeThumbnails) Get(ctx context.Context, ideaID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return "", errors.New("secondary store unavailable")
	}
	payload, ok := f.data[ideaID]
	if !ok {
		return "", ErrThumbnailNotFound
	}
	return payload, nil
}

func (f *fakeThumbnails) Delete(ctx context.Context, ideaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.data, ideaID)
	return nil
}

func (f *fakeThumbnails) stored(ideaID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.data[ideaID]
	return payload, ok
}

type fixture struct {
	repo       Repository
	primary    *docstore.MemoryStore
	thumbnails *fakeThumbnails
	fallback   *cache.ThumbnailCache
}

func newFixture(t *testing.T, maxDocumentBytes int) *fixture {
	t.Helper()
	primary := docstore.NewMemoryStore(maxDocumentBytes)
	thumbnails := newFakeThumbnails()
	fallback, err := cache.NewThumbnailCache(16)
	require.NoError(t, err)

	return &fixture{
		repo:       NewSplitStorageRepository(primary, thumbnails, fallback),
		primary:    primary,
		thumbnails: thumbnails,
		fallback:   fallback,
	}
}

func (f *fixture) primaryAssets(t *testing.T, id string) map[string]interface{} {
	t.Helper()
	doc, err := f.primary.Get(context.Background(), model.CollectionIdeas, id)
	require.NoError(t, err)
	assets, _ := doc.Data["assets"].(map[string]interface{})
	return assets
}

func bigThumbnail() string {
	return "data:image/png;base64," + strings.Repeat("QUJD", 25_000) // ~100KB
}

func newIdea(title string, assets model.Assets) *model.Idea {
	return &model.Idea{
		Title:    title,
		Tags:     []string{"go"},
		Priority: model.PriorityMedium,
		Status:   model.DefaultStatus,
		Assets:   assets,
	}
}

func TestSave_OffloadsThumbnailToSecondaryStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)
	thumb := bigThumbnail()

	input := newIdea("X", model.Assets{"thumbnail": thumb})
	result, err := f.repo.Save(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, model.SaveComplete, result.Status)
	assert.Empty(t, result.Warnings)
	require.NotEmpty(t, result.Idea.ID)
	assert.Equal(t, thumb, result.Idea.Assets[model.AssetThumbnail])
	assert.False(t, result.Idea.CreatedAt.IsZero())

	// primary record only carries the marker
	assert.Equal(t, map[string]interface{}{"has_thumbnail": true}, f.primaryAssets(t, result.Idea.ID))

	stored, ok := f.thumbnails.stored(result.Idea.ID)
	require.True(t, ok)
	assert.Equal(t, thumb, stored)

	// caller's value is untouched
	assert.Equal(t, thumb, input.Assets[model.AssetThumbnail])
	assert.Empty(t, input.ID)

	loaded, err := f.repo.Load(ctx, result.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, thumb, loaded.Assets[model.AssetThumbnail])
	assert.Equal(t, true, loaded.Assets[model.AssetHasThumbnail])

	again, err := f.repo.Load(ctx, result.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestSave_WithoutThumbnail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	result, err := f.repo.Save(ctx, newIdea("plain", model.Assets{"font": "Mohave", "thumbnail": ""}))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"font": "Mohave"}, f.primaryAssets(t, result.Idea.ID))
	assert.Zero(t, f.thumbnails.puts)
	assert.False(t, result.Idea.Assets.HasThumbnail())
}

func TestSave_SecondaryFailureFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)
	f.thumbnails.failPut = true
	thumb := bigThumbnail()

	result, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": thumb}))
	require.NoError(t, err)
	assert.Equal(t, model.SaveComplete, result.Status)
	assert.Contains(t, result.Warnings, model.WarningThumbnailCached)
	assert.Equal(t, thumb, result.Idea.Assets[model.AssetThumbnail])

	cached, ok := f.fallback.Get(result.Idea.ID)
	require.True(t, ok)
	assert.Equal(t, thumb, cached)

	loaded, err := f.repo.Load(ctx, result.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, thumb, loaded.Assets[model.AssetThumbnail])
}

func TestLoad_SecondaryReadFailureUsesFallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)
	f.thumbnails.failPut = true

	result, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": "abc"}))
	require.NoError(t, err)

	f.thumbnails.failGet = true
	loaded, err := f.repo.Load(ctx, result.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.Assets[model.AssetThumbnail])
}

func TestSave_PrimaryRejectionSavesWithoutAssets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2048)
	thumb := bigThumbnail()

	result, err := f.repo.Save(ctx, newIdea("X", model.Assets{
		"thumbnail":  thumb,
		"storyboard": strings.Repeat("s", 4096),
	}))
	require.NoError(t, err)

	assert.Equal(t, model.SaveWithoutAssets, result.Status)
	assert.Contains(t, result.Warnings, model.WarningSavedNoAssets)
	assert.NotContains(t, result.Idea.Assets, "storyboard")

	// the oversized asset is gone but the thumbnail association survives
	assert.Equal(t, map[string]interface{}{"has_thumbnail": true}, f.primaryAssets(t, result.Idea.ID))

	loaded, err := f.repo.Load(ctx, result.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, thumb, loaded.Assets[model.AssetThumbnail])
}

func TestSave_TooLargeEvenWithoutAssets(t *testing.T) {
	f := newFixture(t, 512)

	idea := newIdea("X", nil)
	idea.Description = strings.Repeat("d", 1024)

	_, err := f.repo.Save(context.Background(), idea)
	require.Error(t, err)

	var ideaErr *model.IdeaError
	require.ErrorAs(t, err, &ideaErr)
	assert.Equal(t, "IDEA_TOO_LARGE", ideaErr.Code)
	assert.Equal(t, errkind.StoreCapacity, ideaErr.Kind)
}

func TestLoad_NotFound(t *testing.T) {
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	_, err := f.repo.Load(context.Background(), "missing")
	assert.True(t, model.IsIdeaNotFound(err))
	assert.ErrorIs(t, err, model.ErrIdeaNotFound)
}

func TestLoad_MarkedButPayloadMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	id, err := f.primary.Add(ctx, model.CollectionIdeas, map[string]interface{}{
		"title":  "orphan",
		"assets": map[string]interface{}{"has_thumbnail": true},
	})
	require.NoError(t, err)

	loaded, err := f.repo.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, loaded.Assets.HasThumbnail())
	_, ok := loaded.Assets.Thumbnail()
	assert.False(t, ok)
}

func TestUpdate_WithoutAssetsKeepsThumbnail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	saved, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": "thumb-1"}))
	require.NoError(t, err)

	status := "Scripting"
	result, err := f.repo.Update(ctx, saved.Idea.ID, &model.IdeaPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "Scripting", result.Idea.Status)
	assert.Equal(t, "X", result.Idea.Title)
	assert.Equal(t, "thumb-1", result.Idea.Assets[model.AssetThumbnail])
	assert.Equal(t, map[string]interface{}{"has_thumbnail": true}, f.primaryAssets(t, saved.Idea.ID))
}

func TestUpdate_AssetsWithoutThumbnailKeepMarker(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	saved, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": "thumb-1"}))
	require.NoError(t, err)

	result, err := f.repo.Update(ctx, saved.Idea.ID, &model.IdeaPatch{Assets: model.Assets{"font": "Mohave"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"font": "Mohave", "has_thumbnail": true}, f.primaryAssets(t, saved.Idea.ID))
	assert.Equal(t, "thumb-1", result.Idea.Assets[model.AssetThumbnail])
}

func TestUpdate_ReplacesThumbnailAndEvictsFallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)
	f.thumbnails.failPut = true

	saved, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": "old"}))
	require.NoError(t, err)
	_, ok := f.fallback.Get(saved.Idea.ID)
	require.True(t, ok)

	f.thumbnails.failPut = false
	result, err := f.repo.Update(ctx, saved.Idea.ID, &model.IdeaPatch{Assets: model.Assets{"thumbnail": "new"}})
	require.NoError(t, err)
	assert.Equal(t, model.SaveComplete, result.Status)
	assert.Equal(t, "new", result.Idea.Assets[model.AssetThumbnail])

	_, ok = f.fallback.Get(saved.Idea.ID)
	assert.False(t, ok, "successful secondary write must evict the stale fallback entry")

	loaded, err := f.repo.Load(ctx, saved.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Assets[model.AssetThumbnail])
}

func TestUpdate_FailedSecondaryWriteDoesNotServeStaleThumbnail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	saved, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": "old"}))
	require.NoError(t, err)

	f.thumbnails.failPut = true
	_, err = f.repo.Update(ctx, saved.Idea.ID, &model.IdeaPatch{Assets: model.Assets{"thumbnail": "new"}})
	require.NoError(t, err)

	loaded, err := f.repo.Load(ctx, saved.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Assets[model.AssetThumbnail])
}

func TestUpdate_ExplicitFalseMarkerDropsThumbnail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	saved, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": "thumb"}))
	require.NoError(t, err)

	result, err := f.repo.Update(ctx, saved.Idea.ID, &model.IdeaPatch{Assets: model.Assets{"has_thumbnail": false}})
	require.NoError(t, err)
	assert.False(t, result.Idea.Assets.HasThumbnail())

	_, ok := f.thumbnails.stored(saved.Idea.ID)
	assert.False(t, ok)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)
	title := "t"

	_, err := f.repo.Update(context.Background(), "missing", &model.IdeaPatch{Title: &title})
	assert.True(t, model.IsIdeaNotFound(err))
}

func TestDelete_RemovesRecordAndCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	saved, err := f.repo.Save(ctx, newIdea("X", model.Assets{"thumbnail": "thumb"}))
	require.NoError(t, err)
	f.fallback.Set(saved.Idea.ID, "thumb")

	require.NoError(t, f.repo.Delete(ctx, saved.Idea.ID))

	_, err = f.repo.Load(ctx, saved.Idea.ID)
	assert.True(t, model.IsIdeaNotFound(err))

	_, ok := f.thumbnails.stored(saved.Idea.ID)
	assert.False(t, ok)
	_, ok = f.fallback.Get(saved.Idea.ID)
	assert.False(t, ok)

	assert.True(t, model.IsIdeaNotFound(f.repo.Delete(ctx, saved.Idea.ID)))
}

func TestList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	for _, title := range []string{"first", "second", "third"} {
		_, err := f.repo.Save(ctx, newIdea(title, model.Assets{"thumbnail": "t-" + title}))
		require.NoError(t, err)
	}

	ideas, err := f.repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, "third", ideas[0].Title)
	assert.Equal(t, "first", ideas[2].Title)
	_, ok := ideas[0].Assets.Thumbnail()
	assert.False(t, ok, "payloads are not joined by default")

	ideas, err = f.repo.List(ctx, ListOptions{WithThumbnails: true})
	require.NoError(t, err)
	assert.Equal(t, "t-third", ideas[0].Assets[model.AssetThumbnail])
}

func TestList_Empty(t *testing.T) {
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)

	ideas, err := f.repo.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, ideas)
	assert.Empty(t, ideas)
}

func TestSave_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.DefaultMaxDocumentBytes)
	f.thumbnails.failPut = true

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.repo.Save(ctx, newIdea(fmt.Sprintf("idea-%d", i), model.Assets{"thumbnail": fmt.Sprintf("thumb-%d", i)}))
			if assert.NoError(t, err) {
				ids[i] = res.Idea.ID
			}
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		loaded, err := f.repo.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("thumb-%d", i), loaded.Assets[model.AssetThumbnail])
	}
}

// flakyPrimary wraps MemoryStore so Get or Update can be made to fail after a successful Add.
type flakyPrimary struct {
	*docstore.MemoryStore
	failGet    bool
	failUpdate bool
}

func (p *flakyPrimary) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	if p.failGet {
		return nil, errors.New("primary read timeout")
	}
	return p.MemoryStore.Get(ctx, collection, id)
}

func (p *flakyPrimary) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	if p.failUpdate {
		return errors.New("primary write timeout")
	}
	return p.MemoryStore.Update(ctx, collection, id, patch)
}

func newFlakyRepo(t *testing.T, primary *flakyPrimary) (Repository, *fakeThumbnails) {
	t.Helper()
	thumbnails := newFakeThumbnails()
	fallback, err := cache.NewThumbnailCache(16)
	require.NoError(t, err)
	return NewSplitStorageRepository(primary, thumbnails, fallback), thumbnails
}

func TestSave_MarkerRestoreFailureStillReturnsThumbnail(t *testing.T) {
	primary := &flakyPrimary{MemoryStore: docstore.NewMemoryStore(2048), failUpdate: true}
	repo, thumbnails := newFlakyRepo(t, primary)
	thumb := bigThumbnail()

	result, err := repo.Save(context.Background(), newIdea("X", model.Assets{
		"thumbnail":  thumb,
		"storyboard": strings.Repeat("s", 4096),
	}))
	require.NoError(t, err)

	assert.Equal(t, model.SaveWithoutAssets, result.Status)
	assert.Equal(t, thumb, result.Idea.Assets[model.AssetThumbnail])
	assert.Equal(t, true, result.Idea.Assets[model.AssetHasThumbnail])

	stored, ok := thumbnails.stored(result.Idea.ID)
	require.True(t, ok)
	assert.Equal(t, thumb, stored)
}

func TestSave_ReReadFailureDoesNotFailStoredRecord(t *testing.T) {
	ctx := context.Background()
	primary := &flakyPrimary{MemoryStore: docstore.NewMemoryStore(docstore.DefaultMaxDocumentBytes), failGet: true}
	repo, _ := newFlakyRepo(t, primary)

	result, err := repo.Save(ctx, newIdea("Stored once", model.Assets{"thumbnail": "abc", "color": "red"}))
	require.NoError(t, err)

	require.NotEmpty(t, result.Idea.ID)
	assert.Equal(t, "Stored once", result.Idea.Title)
	assert.Equal(t, "abc", result.Idea.Assets[model.AssetThumbnail])
	assert.Equal(t, "red", result.Idea.Assets["color"])
	assert.False(t, result.Idea.CreatedAt.IsZero())

	docs, err := primary.List(ctx, model.CollectionIdeas, docstore.OrderByCreatedAt, docstore.Descending)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, result.Idea.ID, docs[0].ID)
}

func TestSave_LargeThumbnailLandsInSecondaryDocStore(t *testing.T) {
	ctx := context.Background()
	primary := docstore.NewMemoryStore(docstore.DefaultMaxDocumentBytes)
	secondary := NewDocThumbnailStore(docstore.NewMemoryStore(0))
	fallback, err := cache.NewThumbnailCache(16)
	require.NoError(t, err)
	repo := NewSplitStorageRepository(primary, secondary, fallback)

	// ~1.6MB, larger than the primary store's document limit
	thumb := "data:image/png;base64," + strings.Repeat("QUJD", 400_000)

	result, err := repo.Save(ctx, newIdea("Big", model.Assets{"thumbnail": thumb}))
	require.NoError(t, err)
	assert.Equal(t, model.SaveComplete, result.Status)
	assert.Empty(t, result.Warnings)

	stored, err := secondary.Get(ctx, result.Idea.ID)
	require.NoError(t, err)
	assert.Equal(t, thumb, stored)

	_, inFallback := fallback.Get(result.Idea.ID)
	assert.False(t, inFallback)
	assert.Equal(t, 0, fallback.Len())
}
