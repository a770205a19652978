package html

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

var (
	pageTemplate       = GetTemplate("page", "templates/page.tmpl")
	playerPageTemplate = GetTemplate("player-page", "templates/player_page.tmpl")
	errorPageTemplate  = GetTemplate("error-page", "templates/error.tmpl")
)

type PageLinks struct {
	Page       int
	PrevPage   int
	PrevOffset int
	NextPage   int
	NextOffset int
}

// Page is the gallery page. Grid and Lightbox are prerendered fragments.
type Page struct {
	Title      string
	Grid       template.HTML
	Lightbox   template.HTML
	Pagination *PageLinks
}

func RenderPage(c *gin.Context, page Page) {
	RenderGin(pageTemplate, c, "layout", gin.H{
		"Title":      page.Title,
		"Grid":       page.Grid,
		"Lightbox":   page.Lightbox,
		"Pagination": page.Pagination,
	})
}

func RenderPlayerPage(c *gin.Context, title string, playerHTML template.HTML) {
	RenderGin(playerPageTemplate, c, "layout", gin.H{
		"Title":  title,
		"Player": playerHTML,
	})
}

// RenderErrorPage shows a full error page, for requests that did not come
// from htmx. The status code is left to the caller.
func RenderErrorPage(c *gin.Context, title, description template.HTML) {
	RenderGin(errorPageTemplate, c, "layout", gin.H{
		"Title":       title,
		"Description": description,
	})
}
