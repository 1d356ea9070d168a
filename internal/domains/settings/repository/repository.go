package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"creator-planner-backend/internal/domains/settings/model"
	"creator-planner-backend/internal/infrastructure/docstore"
	"creator-planner-backend/pkg/cache"
)

const (
	cacheKey = "settings:channel"
	cacheTTL = 5 * time.Minute
)

// Repository đọc/ghi singleton document settings/channel
type Repository interface {
	// Load trả về default khi document chưa tồn tại
	Load(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, s *model.Settings) error
}

type docRepository struct {
	store docstore.Store
	cache cache.Cache
}

// NewRepository: cache là read-through, truyền cache.Noop{} khi không có Redis
func NewRepository(store docstore.Store, c cache.Cache) Repository {
	if c == nil {
		c = cache.Noop{}
	}
	return &docRepository{store: store, cache: c}
}

func (r *docRepository) Load(ctx context.Context) (*model.Settings, error) {
	var cached model.Settings
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}
	if err != nil {
		log.Debug().Err(err).Msg("[SETTINGS] Cache read failed, falling back to store")
	}

	doc, err := r.store.Get(ctx, model.CollectionSettings, model.ChannelDocumentID)
	if errors.Is(err, docstore.ErrNotFound) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	s, err := model.FromDocument(doc.Data)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, cacheKey, s, cacheTTL)
	return s, nil
}

func (r *docRepository) Save(ctx context.Context, s *model.Settings) error {
	data, err := model.ToDocument(s)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, model.CollectionSettings, model.ChannelDocumentID, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	// xóa cache, lần đọc sau lấy lại từ store
	if err := r.cache.Delete(ctx, cacheKey); err != nil {
		log.Warn().Err(err).Msg("[SETTINGS] Cache invalidation failed")
	}
	return nil
}
