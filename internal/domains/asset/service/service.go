package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"creator-planner-backend/internal/domains/asset/model"
	"creator-planner-backend/internal/infrastructure/fonts"
	"creator-planner-backend/internal/infrastructure/metrics"
	"creator-planner-backend/internal/infrastructure/removebg"
	"creator-planner-backend/pkg/cache"
	"creator-planner-backend/pkg/logger"
	"creator-planner-backend/pkg/retry"
)

const fontsCacheKey = "fonts:list"

// Service defines font listing and background removal
type Service interface {
	ListFonts(ctx context.Context) (*model.FontsResponse, error)
	RemoveBackground(ctx context.Context, req *model.RemoveBackgroundRequest) (*model.RemoveBackgroundResponse, error)
}

// FontProvider is satisfied by fonts.Client.
type FontProvider interface {
	Configured() bool
	List(ctx context.Context) ([]fonts.Family, error)
}

// BackgroundRemover is satisfied by removebg.Client.
type BackgroundRemover interface {
	Configured() bool
	RemoveBackground(ctx context.Context, image string) (string, error)
}

// Executors: mỗi provider có classifier lỗi riêng nên dùng executor riêng
type Executors struct {
	Fonts    *retry.Executor
	RemoveBG *retry.Executor
}

type assetService struct {
	fonts     FontProvider
	remover   BackgroundRemover
	executors Executors
	cache     cache.Cache
	cacheTTL  time.Duration
	now       func() time.Time

	mu          sync.RWMutex
	memFonts    []model.Font
	memExpireAt time.Time
}

func NewAssetService(fontProvider FontProvider, remover BackgroundRemover, executors Executors, c cache.Cache, cacheTTL time.Duration) Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &assetService{
		fonts:     fontProvider,
		remover:   remover,
		executors: executors,
		cache:     c,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// ListFonts: in-process cache → Redis → Google Fonts (qua executor) → danh sách tĩnh
func (s *assetService) ListFonts(ctx context.Context) (*model.FontsResponse, error) {
	if list, ok := s.memoized(); ok {
		return &model.FontsResponse{Fonts: list, Source: model.SourceCache}, nil
	}

	var cached []model.Font
	if found, err := s.cache.Get(ctx, fontsCacheKey, &cached); err == nil && found && len(cached) > 0 {
		s.memoize(cached)
		return &model.FontsResponse{Fonts: cached, Source: model.SourceCache}, nil
	}

	if !s.fonts.Configured() {
		logger.WarnOnce("fonts_not_configured", "[ASSET] Google Fonts API key not configured, serving built-in list", nil)
		metrics.PlaceholdersServed.WithLabelValues("list_fonts", "not_configured").Inc()
		return staticFonts(), nil
	}

	families, err := retry.Do(ctx, s.executors.Fonts, "list_fonts", s.fonts.List)
	if err != nil {
		log.Error().Err(err).Msg("[ASSET] Google Fonts unavailable, serving built-in list")
		metrics.PlaceholdersServed.WithLabelValues("list_fonts", "exhausted").Inc()
		return staticFonts(), nil
	}

	list := make([]model.Font, len(families))
	for i, f := range families {
		list[i] = model.Font{Family: f.Family, Category: f.Category}
	}

	if err := s.cache.Set(ctx, fontsCacheKey, list, s.cacheTTL); err != nil {
		log.Debug().Err(err).Msg("[ASSET] Could not cache font list")
	}
	s.memoize(list)

	return &model.FontsResponse{Fonts: list, Source: model.SourceGoogleFonts}, nil
}

// RemoveBackground trả lại ảnh gốc kèm warning khi service không dùng được
func (s *assetService) RemoveBackground(ctx context.Context, req *model.RemoveBackgroundRequest) (*model.RemoveBackgroundResponse, error) {
	if req == nil {
		return nil, model.NewInvalidAssetRequest("request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidAssetRequest(err.Error())
	}
	if _, err := removebg.StripDataURL(req.Image); err != nil {
		return nil, model.NewInvalidImage(err)
	}

	if !s.remover.Configured() {
		logger.WarnOnce("removebg_not_configured", "[ASSET] Background removal API key not configured, returning images unchanged", nil)
		metrics.PlaceholdersServed.WithLabelValues("remove_background", "not_configured").Inc()
		return &model.RemoveBackgroundResponse{Image: req.Image, Warning: model.WarningRemoveBGNotConfig}, nil
	}

	image, err := retry.Do(ctx, s.executors.RemoveBG, "remove_background", func(ctx context.Context) (string, error) {
		return s.remover.RemoveBackground(ctx, req.Image)
	})
	if err != nil {
		log.Error().Err(err).Msg("[ASSET] Background removal failed, returning original image")
		metrics.PlaceholdersServed.WithLabelValues("remove_background", "exhausted").Inc()
		return &model.RemoveBackgroundResponse{Image: req.Image, Warning: model.WarningRemoveBGFailed}, nil
	}
	return &model.RemoveBackgroundResponse{Image: image}, nil
}

func (s *assetService) memoized() ([]model.Font, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.memFonts) == 0 || s.now().After(s.memExpireAt) {
		return nil, false
	}
	return s.memFonts, true
}

func (s *assetService) memoize(list []model.Font) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memFonts = list
	s.memExpireAt = s.now().Add(s.cacheTTL)
}

func staticFonts() *model.FontsResponse {
	list := append([]model.Font(nil), model.StaticFonts...)
	return &model.FontsResponse{Fonts: list, Source: model.SourceStatic, Warning: model.WarningFontsStatic}
}
