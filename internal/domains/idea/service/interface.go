package service

import (
	"context"

	"creator-planner-backend/internal/domains/idea/model"
)

// Service defines the business operations of the idea domain
type Service interface {
	// CreateIdea áp dụng default rồi lưu qua split-storage repository
	CreateIdea(ctx context.Context, req *model.CreateIdeaRequest) (*model.IdeaResponse, error)

	GetIdea(ctx context.Context, id string) (*model.Idea, error)

	// ListIdeas trả về mới nhất trước; includeThumbnails join payload từ thumbnail tier
	ListIdeas(ctx context.Context, includeThumbnails bool) ([]*model.Idea, error)

	UpdateIdea(ctx context.Context, id string, req *model.UpdateIdeaRequest) (*model.IdeaResponse, error)

	DeleteIdea(ctx context.Context, id string) error
}
