package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-planner-backend/internal/domains/generation/model"
	"creator-planner-backend/internal/domains/generation/service"
	"creator-planner-backend/internal/shared/response"
)

type GenerationHandler struct {
	service service.Service
}

func NewGenerationHandler(service service.Service) *GenerationHandler {
	return &GenerationHandler{service: service}
}

func (h *GenerationHandler) RegisterRoutes(api *gin.RouterGroup) {
	ai := api.Group("/ai")
	{
		ai.POST("/generate-titles", h.GenerateTitles)
		ai.POST("/generate-description", h.GenerateDescription)
		ai.POST("/generate-thumbnail-text", h.GenerateThumbnailText)
		ai.POST("/generate-thumbnail", h.GenerateThumbnail)
	}
}

// GenerateTitles handles POST /api/ai/generate-titles
func (h *GenerationHandler) GenerateTitles(c *gin.Context) {
	var req model.TitlesRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.service.GenerateTitles(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GenerateDescription handles POST /api/ai/generate-description
func (h *GenerationHandler) GenerateDescription(c *gin.Context) {
	var req model.DescriptionRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.service.GenerateDescription(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GenerateThumbnailText handles POST /api/ai/generate-thumbnail-text
func (h *GenerationHandler) GenerateThumbnailText(c *gin.Context) {
	var req model.ThumbnailTextRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.service.GenerateThumbnailText(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GenerateThumbnail handles POST /api/ai/generate-thumbnail
func (h *GenerationHandler) GenerateThumbnail(c *gin.Context) {
	var req model.ThumbnailRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.service.GenerateThumbnail(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return false
	}
	return true
}

func (h *GenerationHandler) handleError(c *gin.Context, err error) {
	status, message, code, suggestion := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if suggestion != "" {
		response.ErrorWithDetails(c, status, code, message, gin.H{"suggestion": suggestion})
		return
	}
	response.ErrorResponse(c, status, code, message)
}
