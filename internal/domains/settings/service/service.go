package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"creator-planner-backend/internal/domains/settings/model"
	"creator-planner-backend/internal/domains/settings/repository"
	"creator-planner-backend/internal/infrastructure/storage"
	"creator-planner-backend/internal/shared/utils"
)

const defaultFaceName = "Unknown"

// allowedExtensions: extension được phép → format sau khi decode
var allowedExtensions = map[string]string{
	"png":  "png",
	"jpg":  "jpeg",
	"jpeg": "jpeg",
	"gif":  "gif",
	"webp": "webp",
}

// canonicalExtensions: format sau khi decode → extension dùng cho file lưu trữ
var canonicalExtensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"gif":  "gif",
	"webp": "webp",
}

type settingsService struct {
	// mu serialize read-modify-write trên singleton document trong process này
	mu        sync.Mutex
	repo      repository.Repository
	files     storage.FileStore
	processor *storage.ImageProcessor
	now       func() time.Time
}

func NewSettingsService(repo repository.Repository, files storage.FileStore, processor *storage.ImageProcessor) Service {
	return &settingsService{
		repo:      repo,
		files:     files,
		processor: processor,
		now:       time.Now,
	}
}

func (s *settingsService) GetSettings(ctx context.Context) (*model.Settings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return nil, model.NewLoadSettingsError(err)
	}
	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, req *model.UpdateSettingsRequest) (*model.Settings, error) {
	if req == nil {
		return nil, model.NewInvalidSettings("request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidSettings(err.Error())
	}

	return s.mutate(ctx, func(settings *model.Settings) error {
		req.Apply(settings)
		return nil
	})
}

func (s *settingsService) GetStreak(ctx context.Context) (*model.Streak, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &settings.Streak, nil
}

func (s *settingsService) UpdateStreak(ctx context.Context, req *model.StreakRequest) (*model.Streak, error) {
	if req == nil {
		return nil, model.NewInvalidSettings("request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidSettings(err.Error())
	}

	settings, err := s.mutate(ctx, func(settings *model.Settings) error {
		switch req.Action {
		case model.StreakIncrement:
			settings.Streak.Increment(s.now())
		case model.StreakReset:
			settings.Streak.Reset()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("action", req.Action).Int("current", settings.Streak.Current).Int("best", settings.Streak.Best).Msg("[SETTINGS] Streak updated")
	return &settings.Streak, nil
}

func (s *settingsService) ListFaces(ctx context.Context) ([]model.ReferenceFace, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return settings.ReferenceFaces, nil
}

func (s *settingsService) UploadFace(ctx context.Context, name string, upload FaceUpload) (*model.UploadFaceResponse, error) {
	if upload.Filename == "" || len(upload.Data) == 0 {
		return nil, model.ErrNoFile
	}
	expected, ok := allowedExtensions[utils.Extension(upload.Filename)]
	if !ok {
		return nil, model.ErrInvalidFileType
	}

	format, err := s.processor.ValidateImage(upload.Data)
	if err != nil {
		return nil, model.NewInvalidImage(err)
	}
	data, err := s.processor.Normalize(upload.Data, format)
	if err != nil {
		return nil, model.NewInvalidImage(err)
	}

	safe := utils.SecureFilename(upload.Filename)
	if safe == "" {
		return nil, model.ErrInvalidFileType
	}
	// nội dung quyết định format; GetUpload suy content type từ extension nên phải khớp
	if format != expected {
		safe = utils.WithExtension(safe, canonicalExtensions[format])
		log.Debug().Str("format", format).Str("filename", safe).Msg("[SETTINGS] Face extension does not match content, renamed")
	}
	filename := utils.TimestampedFilename(s.now(), safe)

	if err := s.files.Put(ctx, filename, data, storage.AllowedFormats[format]); err != nil {
		return nil, model.NewFileStorageError(err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultFaceName
	}
	face := model.ReferenceFace{Name: name, Filename: filename, URL: model.FaceURL(filename)}

	_, err = s.mutate(ctx, func(settings *model.Settings) error {
		settings.ReferenceFaces = append(settings.ReferenceFaces, face)
		return nil
	})
	if err != nil {
		// file không còn được settings tham chiếu
		if delErr := s.files.Delete(ctx, filename); delErr != nil {
			log.Warn().Err(delErr).Str("filename", filename).Msg("[SETTINGS] Could not remove orphaned face file")
		}
		return nil, err
	}

	log.Info().Str("filename", filename).Str("name", name).Int("bytes", len(data)).Msg("[SETTINGS] Reference face uploaded")
	return &model.UploadFaceResponse{
		Message:  "Face uploaded successfully",
		Filename: filename,
		Face:     face,
	}, nil
}

func (s *settingsService) DeleteFace(ctx context.Context, req *model.DeleteFaceRequest) error {
	if req == nil {
		return model.NewInvalidSettings("request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return model.NewInvalidSettings(err.Error())
	}

	_, err := s.mutate(ctx, func(settings *model.Settings) error {
		kept := settings.ReferenceFaces[:0]
		for _, f := range settings.ReferenceFaces {
			if f.Filename != req.Filename {
				kept = append(kept, f)
			}
		}
		settings.ReferenceFaces = kept
		return nil
	})
	if err != nil {
		return err
	}

	// xóa file best-effort, settings đã không còn tham chiếu
	if err := s.files.Delete(ctx, req.Filename); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		log.Warn().Err(err).Str("filename", req.Filename).Msg("[SETTINGS] Face file cleanup failed")
	}
	return nil
}

func (s *settingsService) GetUpload(ctx context.Context, filename string) ([]byte, string, error) {
	if filename == "" || utils.SecureFilename(filename) != filename {
		return nil, "", model.ErrFileNotFound
	}

	data, err := s.files.Get(ctx, filename)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, "", model.ErrFileNotFound
	}
	if err != nil {
		return nil, "", model.NewFileStorageError(err)
	}

	contentType := "application/octet-stream"
	if format, ok := allowedExtensions[utils.Extension(filename)]; ok {
		contentType = storage.AllowedFormats[format]
	}
	return data, contentType, nil
}

func (s *settingsService) FaceNames(ctx context.Context, filenames []string) ([]string, error) {
	faces, err := s.ListFaces(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(filenames))
	for _, f := range filenames {
		wanted[f] = true
	}

	var names []string
	for _, f := range faces {
		if wanted[f.Filename] {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// mutate load → fn → save dưới mutex
func (s *settingsService) mutate(ctx context.Context, fn func(*model.Settings) error) (*model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Load(ctx)
	if err != nil {
		return nil, model.NewLoadSettingsError(err)
	}
	if err := fn(settings); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, model.NewSaveSettingsError(err)
	}
	return settings, nil
}
