package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-planner-backend/internal/domains/settings/model"
	"creator-planner-backend/internal/domains/settings/service"
	"creator-planner-backend/internal/shared/response"
)

type SettingsHandler struct {
	service service.Service
}

func NewSettingsHandler(service service.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)

	api.GET("/streak", h.GetStreak)
	api.POST("/streak", h.UpdateStreak)

	faces := api.Group("/reference-faces")
	{
		faces.GET("", h.ListFaces)
		faces.POST("", h.UploadFace)
		faces.DELETE("", h.DeleteFace)
	}
}

// RegisterUploadRoutes gắn GET /uploads/:filename ở root (ngoài /api)
func (h *SettingsHandler) RegisterUploadRoutes(r gin.IRoutes) {
	r.GET("/uploads/:filename", h.ServeUpload)
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// GetStreak handles GET /api/streak
func (h *SettingsHandler) GetStreak(c *gin.Context) {
	streak, err := h.service.GetStreak(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, streak)
}

// UpdateStreak handles POST /api/streak
func (h *SettingsHandler) UpdateStreak(c *gin.Context) {
	var req model.StreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	streak, err := h.service.UpdateStreak(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, streak)
}

// ListFaces handles GET /api/reference-faces
func (h *SettingsHandler) ListFaces(c *gin.Context) {
	faces, err := h.service.ListFaces(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, faces)
}

// UploadFace handles POST /api/reference-faces (multipart: file, name)
func (h *SettingsHandler) UploadFace(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.handleError(c, model.ErrNoFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Cannot read uploaded file")
		return
	}

	result, err := h.service.UploadFace(c.Request.Context(), c.PostForm("name"), service.FaceUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// DeleteFace handles DELETE /api/reference-faces {filename}
func (h *SettingsHandler) DeleteFace(c *gin.Context) {
	var req model.DeleteFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.service.DeleteFace(c.Request.Context(), &req); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Face deleted successfully"})
}

// ServeUpload handles GET /uploads/:filename
func (h *SettingsHandler) ServeUpload(c *gin.Context) {
	data, contentType, err := h.service.GetUpload(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}

func (h *SettingsHandler) handleError(c *gin.Context, err error) {
	status, message, code := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.ErrorResponse(c, status, code, message)
}
