package routes

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/btmxh/mediaview/internal/middlewares"
	"github.com/gin-gonic/gin"
)

// MediaProxy forwards /api/media requests to the backend so every URL handed
// to the browser stays same-origin.
func MediaProxy(backend *url.URL) gin.HandlerFunc {
	proxy := httputil.NewSingleHostReverseProxy(backend)

	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = backend.Host
		if r.Header.Get("Authorization") == "" {
			if cookie, err := r.Cookie(middlewares.AUTH_COOKIE_NAME); err == nil && cookie.Value != "" {
				r.Header.Set("Authorization", "Bearer "+cookie.Value)
			}
		}
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		slog.Warn("Media backend unreachable", "path", r.URL.Path, "err", err)
		w.WriteHeader(http.StatusBadGateway)
	}

	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}
