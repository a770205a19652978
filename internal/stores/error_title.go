// Package stores keeps per-request values on the gin context.
package stores

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

const errorTitleKey = "mediaview.error-title"

// DefaultErrorTitle heads errors of handlers that never named their action.
const DefaultErrorTitle template.HTML = "Error"

func SetErrorTitle(c *gin.Context, title template.HTML) {
	c.Set(errorTitleKey, title)
}

func GetErrorTitle(c *gin.Context) template.HTML {
	value, _ := c.Get(errorTitleKey)
	if title, ok := value.(template.HTML); ok && title != "" {
		return title
	}

	return DefaultErrorTitle
}
