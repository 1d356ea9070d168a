package service

import (
	"context"

	"creator-planner-backend/internal/domains/settings/model"
)

// FaceUpload là file ảnh nhận từ multipart form
type FaceUpload struct {
	Filename string
	Data     []byte
}

// Service defines settings, streak and reference-face operations
type Service interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
	UpdateSettings(ctx context.Context, req *model.UpdateSettingsRequest) (*model.Settings, error)

	GetStreak(ctx context.Context) (*model.Streak, error)
	// UpdateStreak: increment | reset
	UpdateStreak(ctx context.Context, req *model.StreakRequest) (*model.Streak, error)

	ListFaces(ctx context.Context) ([]model.ReferenceFace, error)
	UploadFace(ctx context.Context, name string, upload FaceUpload) (*model.UploadFaceResponse, error)
	DeleteFace(ctx context.Context, req *model.DeleteFaceRequest) error
	// GetUpload returns a stored face file and its content type
	GetUpload(ctx context.Context, filename string) ([]byte, string, error)

	// FaceNames resolves filenames to the names given at upload, unknown filenames are skipped
	FaceNames(ctx context.Context, filenames []string) ([]string, error)
}
