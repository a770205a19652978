package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/html"
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/middlewares"
	"github.com/btmxh/mediaview/internal/player"
	"github.com/btmxh/mediaview/internal/services"
	"github.com/gin-gonic/gin"
)

func PlayerRouter(g *gin.RouterGroup) {
	// standalone player page, e.g. /players/new?id=abc&type=video
	g.GET("/new", func(c *gin.Context) {
		handler := errs.NewGinErrorHandler(c, "Unable to open media")
		s := middlewares.GetSession(c)

		mediaId := c.Query("id")
		hint := media.Descriptor{Kind: media.MediaKind(c.Query("type"))}

		key, p := s.NewPlayer()
		// failures stay visible in the player itself
		if err := p.LoadMedia(c.Request.Context(), mediaId, hint); err != nil && !errors.Is(err, player.ErrSuperseded) && !errors.Is(err, player.ErrDestroyed) {
			slog.Info("Standalone player failed to load", "id", mediaId, "err", err)
		}

		playerHTML, err := html.PlayerHTML(key, p.View(), false)
		if err != nil {
			handler.RenderError(err)
			return
		}

		title := "Media"
		if el := p.View().Element; el != nil && el.Caption != "" {
			title = el.Caption
		}
		html.RenderPlayerPage(c, title, playerHTML)
	})

	keyed := g.Group("/:key")
	keyed.Use(middlewares.PlayerMiddleware())

	keyed.POST("/events", func(c *gin.Context) {
		handler := errs.NewGinErrorHandler(c, "Invalid media event")
		_, p := middlewares.GetPlayer(c)

		ev, err := player.ParseEvent(c.PostForm("event"))
		if err != nil {
			handler.PublicError(http.StatusUnprocessableEntity, err)
			return
		}

		p.HandleEvent(c.PostForm("element"), ev)
		c.Status(http.StatusNoContent)
	})

	keyed.POST("/retry", func(c *gin.Context) {
		handler := errs.NewGinErrorHandler(c, "Unable to reload media")
		_, p := middlewares.GetPlayer(c)

		if err := p.Retry(c.Request.Context()); err != nil && !errors.Is(err, player.ErrSuperseded) && !errors.Is(err, player.ErrDestroyed) {
			errs.Report(handler, err, services.GenericError)
			return
		}

		c.Status(http.StatusNoContent)
	})

	keyed.DELETE("", func(c *gin.Context) {
		key, _ := middlewares.GetPlayer(c)
		middlewares.GetSession(c).DestroyPlayer(key)
		c.Status(http.StatusNoContent)
	})
}
