package routes

import (
	"net/http"

	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/middlewares"
	"github.com/btmxh/mediaview/internal/services"
	"github.com/gin-gonic/gin"
)

func GalleryRouter(g *gin.RouterGroup) {
	g.POST("/items/:id/select", func(c *gin.Context) {
		handler := errs.NewGinErrorHandler(c, "Unable to open media")
		s := middlewares.GetSession(c)

		if err := s.Gallery.Select(c.Request.Context(), c.Param("id")); err != nil {
			errs.Report(handler, err, services.GenericError)
			return
		}

		c.Status(http.StatusNoContent)
	})

	g.POST("/lightbox/close", func(c *gin.Context) {
		middlewares.GetSession(c).Gallery.CloseLightbox()
		c.Status(http.StatusNoContent)
	})
}
