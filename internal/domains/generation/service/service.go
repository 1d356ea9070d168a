package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"creator-planner-backend/internal/domains/generation/model"
	"creator-planner-backend/internal/infrastructure/metrics"
	"creator-planner-backend/internal/infrastructure/openai"
	"creator-planner-backend/pkg/logger"
	"creator-planner-backend/pkg/retry"
)

// Placeholder reasons (metrics label)
const (
	reasonNotConfigured = "not_configured"
	reasonExhausted     = "exhausted"
	reasonEmpty         = "empty_output"
)

type Config struct {
	// Configured = có API key dùng được
	Configured  bool
	ImageModels []string
}

type generationService struct {
	text     TextProvider
	images   ImageProvider
	faces    FaceDirectory
	executor *retry.Executor
	cfg      Config
	now      func() time.Time
}

type Option func(*generationService)

// WithClock thay time.Now, dùng cho năm trong placeholder title
func WithClock(now func() time.Time) Option {
	return func(s *generationService) { s.now = now }
}

func NewGenerationService(text TextProvider, images ImageProvider, faces FaceDirectory, executor *retry.Executor, cfg Config, opts ...Option) Service {
	s := &generationService{
		text:     text,
		images:   images,
		faces:    faces,
		executor: executor,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *generationService) GenerateTitles(ctx context.Context, req *model.TitlesRequest) (*model.TitlesResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	placeholder := func(warning string) *model.TitlesResponse {
		return &model.TitlesResponse{
			Titles:  model.PlaceholderTitles(req.Topic, req.Audience, s.now().Year()),
			Warning: warning,
		}
	}

	text, warning, ok := s.complete(ctx, "generate_titles", model.TitlesSpec, model.TitlesPrompt(*req))
	if !ok {
		return placeholder(warning), nil
	}
	titles := model.ParseSuggestions(text, model.SuggestionCount)
	if len(titles) == 0 {
		s.servePlaceholder("generate_titles", reasonEmpty)
		return placeholder(model.WarningUnavailable), nil
	}
	return &model.TitlesResponse{Titles: titles}, nil
}

func (s *generationService) GenerateDescription(ctx context.Context, req *model.DescriptionRequest) (*model.DescriptionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	text, warning, ok := s.complete(ctx, "generate_description", model.DescriptionSpec, model.DescriptionPrompt(*req))
	if !ok {
		return &model.DescriptionResponse{
			Description: model.PlaceholderDescription(req.Topic, req.KeyPoints),
			Warning:     warning,
		}, nil
	}
	return &model.DescriptionResponse{Description: text}, nil
}

func (s *generationService) GenerateThumbnailText(ctx context.Context, req *model.ThumbnailTextRequest) (*model.ThumbnailTextResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	placeholder := func(warning string) *model.ThumbnailTextResponse {
		return &model.ThumbnailTextResponse{
			Suggestions: model.PlaceholderThumbnailText(req.Title),
			Warning:     warning,
		}
	}

	text, warning, ok := s.complete(ctx, "generate_thumbnail_text", model.ThumbnailTextSpec, model.ThumbnailTextPrompt(*req))
	if !ok {
		return placeholder(warning), nil
	}
	suggestions := model.ParseSuggestions(text, model.SuggestionCount)
	if len(suggestions) == 0 {
		s.servePlaceholder("generate_thumbnail_text", reasonEmpty)
		return placeholder(model.WarningUnavailable), nil
	}
	return &model.ThumbnailTextResponse{Suggestions: suggestions}, nil
}

func (s *generationService) GenerateThumbnail(ctx context.Context, req *model.ThumbnailRequest) (*model.ThumbnailResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !s.cfg.Configured {
		logger.WarnOnce("openai_not_configured", "[AI] OpenAI API key not configured, serving placeholders", nil)
		return nil, model.NewAINotConfigured()
	}

	template := req.Template
	if template == "" {
		template = model.TemplateTextOverImage
	}

	var faceNames []string
	if len(req.IncludeFaces) > 0 && s.faces != nil {
		names, err := s.faces.FaceNames(ctx, req.IncludeFaces)
		if err != nil {
			// thiếu tên người không đáng để fail cả request
			log.Warn().Err(err).Msg("[AI] Could not resolve reference faces, generating without them")
		}
		faceNames = names
	}
	prompt := model.ThumbnailPrompt(req.Prompt, template, faceNames)

	var errs []error
	for _, name := range s.cfg.ImageModels {
		spec := model.ImageModelSpecFor(name)
		result, err := retry.Do(ctx, s.executor, "generate_thumbnail:"+name, func(ctx context.Context) (*openai.ImageResult, error) {
			return s.images.GenerateImage(ctx, openai.ImageRequest{
				Prompt:  prompt,
				Model:   spec.Model,
				Size:    spec.Size,
				Quality: spec.Quality,
				Style:   spec.Style,
			})
		})
		if err == nil {
			log.Info().Str("model", name).Msg("[AI] Thumbnail generated")
			return &model.ThumbnailResponse{
				ImageURL:      result.URL,
				ImageB64:      result.B64JSON,
				Model:         result.Model,
				RevisedPrompt: result.RevisedPrompt,
				Prompt:        prompt,
			}, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", name, err))
		if ctx.Err() != nil {
			break
		}
		log.Warn().Err(err).Str("model", name).Msg("[AI] Image model failed, trying next model")
	}

	return nil, model.NewImageGenerationFailed(errors.Join(errs...))
}

// ============================================
// HELPERS
// ============================================

// complete chạy một completion qua executor. ok=false nghĩa là caller phải dùng placeholder với warning trả về.
func (s *generationService) complete(ctx context.Context, operation string, spec model.CompletionSpec, prompt string) (text, warning string, ok bool) {
	if !s.cfg.Configured {
		logger.WarnOnce("openai_not_configured", "[AI] OpenAI API key not configured, serving placeholders", nil)
		s.servePlaceholder(operation, reasonNotConfigured)
		return "", model.WarningNotConfigured, false
	}

	text, err := retry.Do(ctx, s.executor, operation, func(ctx context.Context) (string, error) {
		return s.text.Complete(ctx, openai.CompletionRequest{
			SystemPrompt: spec.System,
			UserPrompt:   prompt,
			MaxTokens:    spec.MaxTokens,
			Temperature:  spec.Temperature,
		})
	})
	if err != nil {
		log.Error().Err(err).Str("operation", operation).Msg("[AI] Provider failed, serving placeholder")
		s.servePlaceholder(operation, reasonExhausted)
		return "", model.WarningUnavailable, false
	}
	return text, "", true
}

func (s *generationService) servePlaceholder(operation, reason string) {
	metrics.PlaceholdersServed.WithLabelValues(operation, reason).Inc()
}

type validatable interface {
	Validate() error
}

func validate[T validatable](req *T) error {
	if req == nil {
		return model.NewInvalidGenerationRequest("request cannot be nil")
	}
	if err := (*req).Validate(); err != nil {
		return model.NewInvalidGenerationRequest(err.Error())
	}
	return nil
}
