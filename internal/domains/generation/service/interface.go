package service

import (
	"context"

	"creator-planner-backend/internal/domains/generation/model"
	"creator-planner-backend/internal/infrastructure/openai"
)

// Service defines the AI generation operations.
// Text operations never fail on provider errors: they fall back to placeholders with a warning.
type Service interface {
	GenerateTitles(ctx context.Context, req *model.TitlesRequest) (*model.TitlesResponse, error)
	GenerateDescription(ctx context.Context, req *model.DescriptionRequest) (*model.DescriptionResponse, error)
	GenerateThumbnailText(ctx context.Context, req *model.ThumbnailTextRequest) (*model.ThumbnailTextResponse, error)
	// GenerateThumbnail has no placeholder: exhaustion is IMAGE_GENERATION_FAILED
	GenerateThumbnail(ctx context.Context, req *model.ThumbnailRequest) (*model.ThumbnailResponse, error)
}

// TextProvider is satisfied by openai.Client.
type TextProvider interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

type ImageProvider interface {
	GenerateImage(ctx context.Context, req openai.ImageRequest) (*openai.ImageResult, error)
}

// FaceDirectory resolves reference-face filenames to display names.
type FaceDirectory interface {
	FaceNames(ctx context.Context, filenames []string) ([]string, error)
}
