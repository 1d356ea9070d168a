package repository

import (
	"context"
	"errors"

	"creator-planner-backend/internal/domains/idea/model"
)

// ErrThumbnailNotFound: secondary store không có payload cho idea
var ErrThumbnailNotFound = errors.New("thumbnail not found")

type ListOptions struct {
	// WithThumbnails joins thumbnail payloads; off by default since lists can be long.
	WithThumbnails bool
}

// Repository persists ideas across the primary store and the thumbnail tier.
type Repository interface {
	Save(ctx context.Context, idea *model.Idea) (*model.SaveResult, error)
	Load(ctx context.Context, id string) (*model.Idea, error)
	Update(ctx context.Context, id string, patch *model.IdeaPatch) (*model.SaveResult, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]*model.Idea, error)
}

// ThumbnailStore is the secondary tier, keyed by idea id.
type ThumbnailStore interface {
	Put(ctx context.Context, ideaID, payload string) error
	// Get returns ErrThumbnailNotFound on a miss.
	Get(ctx context.Context, ideaID string) (string, error)
	Delete(ctx context.Context, ideaID string) error
}

// FallbackCache là bộ nhớ tạm giới hạn kích thước khi secondary store ghi lỗi
type FallbackCache interface {
	Get(ideaID string) (string, bool)
	Set(ideaID, payload string) bool
	Remove(ideaID string)
}
