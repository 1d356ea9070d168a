package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-planner-backend/internal/domains/asset/model"
	"creator-planner-backend/internal/domains/asset/service"
	"creator-planner-backend/internal/shared/response"
)

type AssetHandler struct {
	service service.Service
}

func NewAssetHandler(service service.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/fonts", h.ListFonts)
	api.POST("/remove-background", h.RemoveBackground)
}

// ListFonts handles GET /api/fonts
func (h *AssetHandler) ListFonts(c *gin.Context) {
	result, err := h.service.ListFonts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// RemoveBackground handles POST /api/remove-background
func (h *AssetHandler) RemoveBackground(c *gin.Context) {
	var req model.RemoveBackgroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.RemoveBackground(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *AssetHandler) handleError(c *gin.Context, err error) {
	status, message, code := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.ErrorResponse(c, status, code, message)
}
