package middleware

import (
	"net/http"
	"strconv"
	"time"

	"creator-planner-backend/internal/infrastructure/metrics"
	"creator-planner-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Metrics ghi request count + duration theo route template (không theo path thật để tránh high cardinality)
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// BodyLimit từ chối request có Content-Length vượt maxBytes và giới hạn body đọc được
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.RequestTooLarge(c, "Request body exceeds upload limit")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
