package service

import (
	"context"
	"strings"

	"creator-planner-backend/internal/domains/idea/model"
	"creator-planner-backend/internal/domains/idea/repository"
)

type ideaService struct {
	repo repository.Repository
}

// NewIdeaService receives the repository from the container
func NewIdeaService(repo repository.Repository) Service {
	return &ideaService{repo: repo}
}

func (s *ideaService) CreateIdea(ctx context.Context, req *model.CreateIdeaRequest) (*model.IdeaResponse, error) {
	if req == nil {
		return nil, model.NewInvalidIdea("request cannot be nil")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidIdea(err.Error())
	}

	result, err := s.repo.Save(ctx, req.ToIdea())
	if err != nil {
		return nil, err
	}

	resp := model.NewIdeaResponse(result)
	return &resp, nil
}

func (s *ideaService) GetIdea(ctx context.Context, id string) (*model.Idea, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.Load(ctx, id)
}

func (s *ideaService) ListIdeas(ctx context.Context, includeThumbnails bool) ([]*model.Idea, error) {
	return s.repo.List(ctx, repository.ListOptions{WithThumbnails: includeThumbnails})
}

func (s *ideaService) UpdateIdea(ctx context.Context, id string, req *model.UpdateIdeaRequest) (*model.IdeaResponse, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, model.NewInvalidIdea("request cannot be nil")
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidIdea(err.Error())
	}

	result, err := s.repo.Update(ctx, id, req.ToPatch())
	if err != nil {
		return nil, err
	}

	resp := model.NewIdeaResponse(result)
	return &resp, nil
}

func (s *ideaService) DeleteIdea(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// validateID: id là key của document store, không được rỗng hay chứa '/'
func validateID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, "/\\") || len(id) > 128 {
		return model.NewInvalidIdeaID(id)
	}
	return nil
}
