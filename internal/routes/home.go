package routes

import (
	"strconv"

	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/gallery"
	"github.com/btmxh/mediaview/internal/html"
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/mediaapi"
	"github.com/btmxh/mediaview/internal/middlewares"
	"github.com/btmxh/mediaview/internal/services"
	"github.com/gin-gonic/gin"
)

const galleryTitle = "Media library"

// HomeRouter renders the gallery page for the requested page of public
// media. Thumbnails arrive over the WebSocket once it connects.
func HomeRouter(client *mediaapi.Client, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler := errs.NewGinErrorHandler(c, "Unable to load the media library")

		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			offset = 0
		}

		items, err := client.List(c.Request.Context())
		if err != nil {
			errs.Report(handler, err, services.GenericError)
			return
		}

		pagination := services.NewPagination(offset, pageSize, items)
		s := middlewares.GetSession(c)
		s.Gallery.Prepare(pagination.Items)

		page, err := galleryPage(s, pagination)
		if err != nil {
			handler.RenderError(err)
			return
		}

		html.RenderPage(c, page)
	}
}

func galleryPage(s *services.Session, pagination services.Pagination[media.Descriptor]) (html.Page, error) {
	page := html.Page{Title: galleryTitle}

	var err error
	if page.Grid, err = html.GridHTML(s.Gallery.View(), false); err != nil {
		return page, err
	}

	if lb := s.Gallery.Lightbox(); lb != nil {
		playerHTML, err := html.PlayerHTML(services.LightboxKey, lb.Player.View(), false)
		if err != nil {
			return page, err
		}

		view := gallery.LightboxView{Id: lb.Id, Descriptor: lb.Descriptor}
		if page.Lightbox, err = html.LightboxHTML(view, playerHTML, false); err != nil {
			return page, err
		}
	}

	if pagination.PrevOffset >= 0 || pagination.NextOffset >= 0 {
		page.Pagination = &html.PageLinks{
			Page:       pagination.Page,
			PrevPage:   pagination.PrevPage,
			PrevOffset: pagination.PrevOffset,
			NextPage:   pagination.NextPage,
			NextOffset: pagination.NextOffset,
		}
	}

	return page, nil
}
