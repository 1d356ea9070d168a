package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creator-planner-backend/internal/domains/idea/model"
	"creator-planner-backend/internal/infrastructure/docstore"
	"creator-planner-backend/internal/infrastructure/storage"
)

// ============================================
// DOCSTORE THUMBNAIL TIER
// ============================================

// DocThumbnailStore lưu thumbnail trong collection "thumbnails" của document store,
// record {idea_id, image_data, created_at}, document id = idea id
type DocThumbnailStore struct {
	store docstore.Store
	now   func() time.Time
}

var _ ThumbnailStore = (*DocThumbnailStore)(nil)

func NewDocThumbnailStore(store docstore.Store) *DocThumbnailStore {
	return &DocThumbnailStore{store: store, now: time.Now}
}

func (s *DocThumbnailStore) Put(ctx context.Context, ideaID, payload string) error {
	record := map[string]interface{}{
		"idea_id":    ideaID,
		"image_data": payload,
		"created_at": s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.Set(ctx, model.CollectionThumbnails, ideaID, record); err != nil {
		return fmt.Errorf("store thumbnail %s: %w", ideaID, err)
	}
	return nil
}

func (s *DocThumbnailStore) Get(ctx context.Context, ideaID string) (string, error) {
	doc, err := s.store.Get(ctx, model.CollectionThumbnails, ideaID)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", ErrThumbnailNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load thumbnail %s: %w", ideaID, err)
	}

	payload, _ := doc.Data["image_data"].(string)
	if payload == "" {
		return "", ErrThumbnailNotFound
	}
	return payload, nil
}

func (s *DocThumbnailStore) Delete(ctx context.Context, ideaID string) error {
	err := s.store.Delete(ctx, model.CollectionThumbnails, ideaID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("delete thumbnail %s: %w", ideaID, err)
	}
	return nil
}

// ============================================
// OBJECT STORAGE THUMBNAIL TIER
// ============================================

// ObjectStorage is the subset of storage.MinIOStorage used for thumbnails.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// MinIOThumbnailStore lưu payload nguyên văn dưới key thumbnails/{idea_id}
type MinIOThumbnailStore struct {
	objects ObjectStorage
}

var _ ThumbnailStore = (*MinIOThumbnailStore)(nil)

func NewMinIOThumbnailStore(objects ObjectStorage) *MinIOThumbnailStore {
	return &MinIOThumbnailStore{objects: objects}
}

func thumbnailKey(ideaID string) string {
	return model.CollectionThumbnails + "/" + ideaID
}

func (s *MinIOThumbnailStore) Put(ctx context.Context, ideaID, payload string) error {
	return s.objects.Upload(ctx, thumbnailKey(ideaID), []byte(payload), "text/plain")
}

func (s *MinIOThumbnailStore) Get(ctx context.Context, ideaID string) (string, error) {
	data, err := s.objects.Download(ctx, thumbnailKey(ideaID))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", ErrThumbnailNotFound
	}
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrThumbnailNotFound
	}
	return string(data), nil
}

func (s *MinIOThumbnailStore) Delete(ctx context.Context, ideaID string) error {
	return s.objects.Delete(ctx, thumbnailKey(ideaID))
}
