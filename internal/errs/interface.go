// Package errs routes request and background errors to where they are shown:
// the response of a gin request, the log, or a test capture.
package errs

import "net/http"

type ErrorHandler interface {
	// RenderError reports a failure to render a response that was already
	// started.
	RenderError(err error)
	// PublicError reports err to the user.
	PublicError(statusCode int, err error)
	// PrivateError only logs err.
	PrivateError(err error)
}

// Report passes err to handler, keeping media errors public and everything
// else private behind a generic message.
func Report(handler ErrorHandler, err error, generic error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		handler.PrivateError(err)
		handler.PublicError(status, generic)
		return
	}

	handler.PublicError(status, err)
}
