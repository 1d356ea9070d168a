package main

import (
	"context"
	"net/http"
	"time"

	"creator-planner-backend/internal/shared/middleware"
	"creator-planner-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(),
		middleware.BodyLimit(c.Config.Upload.MaxBytes),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ảnh reference faces, public như static files
	c.SettingsHandler.RegisterUploadRoutes(router)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		c.IdeaHandler.RegisterRoutes(api)
		c.GenerationHandler.RegisterRoutes(api)
		c.SettingsHandler.RegisterRoutes(api)
		c.AssetHandler.RegisterRoutes(api)
	}

	return router
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		services, healthy := c.Health(checkCtx)

		status := http.StatusOK
		state := "healthy"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "unhealthy"
		}

		ctx.JSON(status, gin.H{
			"status":    state,
			"version":   c.Config.App.Version,
			"openai":    c.Config.OpenAI.Configured(),
			"services":  services,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
