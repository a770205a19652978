package middlewares

import (
	"html/template"
	"log/slog"
	"strings"

	"github.com/btmxh/mediaview/internal/html"
	"github.com/btmxh/mediaview/internal/stores"
	"github.com/gin-gonic/gin"
)

const internalErrorDescription template.HTML = "Internal server error"

// ErrorMiddleware collects the errors a handler attached and hands their
// public descriptions to callback. Responses that were already partly written
// are left alone.
func ErrorMiddleware(callback func(c *gin.Context, title, desc template.HTML)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		title := stores.GetErrorTitle(c)
		slog.Warn("Error handling request", "path", c.FullPath(), "title", title, "errors", c.Errors.String())

		public := c.Errors.ByType(gin.ErrorTypePublic)
		if c.Writer.Written() && len(public) == 0 {
			return
		}

		description := internalErrorDescription
		if len(public) > 0 {
			descriptions := make([]string, len(public))
			for i, err := range public {
				descriptions[i] = string(html.StringAsHTML(err.Error()))
			}
			description = template.HTML(strings.Join(descriptions, "<br>"))
		}

		callback(c, title, description)
	}
}
