package errs

import (
	"html/template"
	"net/http"

	"github.com/btmxh/mediaview/internal/stores"
	"github.com/gin-gonic/gin"
)

// GinErrorHandler attaches errors to the request; the error middleware turns
// them into a toast or an error page once the handler returns.
type GinErrorHandler struct {
	c    *gin.Context
	htmx bool
}

func NewGinErrorHandler(c *gin.Context, title template.HTML) *GinErrorHandler {
	stores.SetErrorTitle(c, title)
	return &GinErrorHandler{c: c, htmx: IsHtmx(c)}
}

func IsHtmx(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func (e *GinErrorHandler) attach(err error, typ gin.ErrorType) {
	e.c.Error(err).SetType(typ)
}

func (e *GinErrorHandler) RenderError(err error) {
	e.attach(err, gin.ErrorTypeRender)
}

// PublicError answers htmx requests with 200, since htmx discards the body of
// error responses and the toast would never show.
func (e *GinErrorHandler) PublicError(statusCode int, err error) {
	if e.htmx {
		statusCode = http.StatusOK
	}
	e.c.Status(statusCode)
	e.attach(err, gin.ErrorTypePublic)
}

func (e *GinErrorHandler) PrivateError(err error) {
	e.attach(err, gin.ErrorTypePrivate)
}
