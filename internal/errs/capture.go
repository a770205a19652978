package errs

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// CaptureErrorHandler keeps every reported error, for the CLI and tests.
type CaptureErrorHandler struct {
	Errors []gin.Error
	// StatusCode is the status of the last public error.
	StatusCode int
}

func NewCapturingErrorHandler() *CaptureErrorHandler {
	return &CaptureErrorHandler{}
}

func (e *CaptureErrorHandler) add(err error, typ gin.ErrorType) {
	e.Errors = append(e.Errors, gin.Error{Err: err, Type: typ})
}

func (e *CaptureErrorHandler) RenderError(err error) {
	e.add(err, gin.ErrorTypeRender)
}

func (e *CaptureErrorHandler) PublicError(statusCode int, err error) {
	e.StatusCode = statusCode
	e.add(err, gin.ErrorTypePublic)
}

func (e *CaptureErrorHandler) PrivateError(err error) {
	e.add(err, gin.ErrorTypePrivate)
}

// Err joins the captured errors, private ones first since they carry the
// cause behind a generic public message.
func (e *CaptureErrorHandler) Err() error {
	var private, rest []error
	for _, err := range e.Errors {
		if err.Type == gin.ErrorTypePrivate {
			private = append(private, err.Err)
		} else {
			rest = append(rest, err.Err)
		}
	}
	return errors.Join(append(private, rest...)...)
}
