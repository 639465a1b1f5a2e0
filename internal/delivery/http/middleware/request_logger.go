package middleware

import (
	"log/slog"
	"time"

	"portfolio-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one access log line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
			"ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"request_id", c.GetString(response.RequestIDKey),
		}
		if ref := c.Request.Referer(); ref != "" {
			attrs = append(attrs, "referer", ref)
		}
		logger.Log(c.Request.Context(), level, "request completed", attrs...)
	}
}
