package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/btmxh/mediaview/internal/mediaapi"
	"github.com/gin-gonic/gin"
)

const AUTH_COOKIE_NAME = "Authorization"

// TokenMiddleware forwards the browser's Authorization cookie to backend
// calls made with the request context. The token is passed on verbatim.
func TokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AUTH_COOKIE_NAME)
		if err == nil {
			c.Request = c.Request.WithContext(mediaapi.WithToken(c.Request.Context(), token))
		} else if err != http.ErrNoCookie {
			slog.Warn("Failed to get auth cookie", "error", err)
		}

		c.Next()
	}
}
