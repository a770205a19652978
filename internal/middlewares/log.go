package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// LogMiddleware logs every request with its status and latency.
func LogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Debug("Handling request", "method", c.Request.Method, "path", c.Request.URL.Path)
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "Finish handling request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"time", elapsed,
		)
	}
}
