package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creator-planner-backend/internal/domains/idea/model"
	"creator-planner-backend/internal/domains/idea/service"
	"creator-planner-backend/internal/shared/response"
)

type IdeaHandler struct {
	service service.Service
}

func NewIdeaHandler(service service.Service) *IdeaHandler {
	return &IdeaHandler{
		service: service,
	}
}

// RegisterRoutes gắn các route /api/videos
func (h *IdeaHandler) RegisterRoutes(api *gin.RouterGroup) {
	videos := api.Group("/videos")
	{
		videos.GET("", h.ListIdeas)
		videos.POST("", h.CreateIdea)
		videos.GET("/:id", h.GetIdea)
		videos.PUT("/:id", h.UpdateIdea)
		videos.DELETE("/:id", h.DeleteIdea)
	}
}

// ListIdeas handles GET /api/videos
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	include, _ := strconv.ParseBool(c.DefaultQuery("include_thumbnails", "false"))

	ideas, err := h.service.ListIdeas(c.Request.Context(), include)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ideas)
}

// CreateIdea handles POST /api/videos
func (h *IdeaHandler) CreateIdea(c *gin.Context) {
	var req model.CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.CreateIdea(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetIdea handles GET /api/videos/:id
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	idea, err := h.service.GetIdea(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, idea)
}

// UpdateIdea handles PUT /api/videos/:id
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	var req model.UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.UpdateIdea(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// DeleteIdea handles DELETE /api/videos/:id
func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	if err := h.service.DeleteIdea(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

func (h *IdeaHandler) handleError(c *gin.Context, err error) {
	status, message, code := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.ErrorResponse(c, status, code, message)
}
