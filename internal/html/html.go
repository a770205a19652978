// Package html renders pages and the swappable fragments pushed over the
// session WebSocket.
package html

import (
	"embed"
	"html/template"
	"maps"
	"net/url"
	"sync/atomic"

	"github.com/btmxh/mediaview/internal/media"
	"github.com/gin-gonic/gin"
)

//go:embed templates
var templates embed.FS

var useCDN atomic.Bool

// SetUseCDN picks where pages load htmx from: unpkg, or /scripts.
func SetUseCDN(use bool) {
	useCDN.Store(use)
}

func StringAsHTML(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

// RenderGin executes block with data on top of the fields every layout
// needs. Failures are attached to c as render errors.
func RenderGin(tmpl *template.Template, c *gin.Context, block string, data gin.H) {
	args := gin.H{"UseCDN": useCDN.Load()}
	maps.Copy(args, data)

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, block, args); err != nil {
		c.Error(err).SetType(gin.ErrorTypeRender)
	}
}

func DefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"FormatSize": media.FormatSize,
		"PathEscape": url.PathEscape,
		"HumanIndex": func(i int) int { return i + 1 },
	}
}

// GetTemplate parses the embedded files at paths together with the layout and
// the shared fragments.
func GetTemplate(name string, paths ...string) *template.Template {
	paths = append(paths, "templates/layout.tmpl", "templates/fragments.tmpl")
	return template.Must(template.New(name).Funcs(DefaultFuncMap()).ParseFS(templates, paths...))
}
