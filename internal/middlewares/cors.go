package middlewares

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware lets pages on other origins embed proxied media. Range
// requests need their headers exposed for seeking to work.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Range"},
		ExposeHeaders: []string{"Content-Length", "Content-Range", "Accept-Ranges"},
	})
}
