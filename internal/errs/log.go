package errs

import "log/slog"

// LogErrorHandler serves work that has no response to write to, like
// WebSocket pushes and background recording. Public errors are logged and
// then handed to onPublic, if any.
type LogErrorHandler struct {
	title    string
	logger   *slog.Logger
	onPublic func(err error) error
}

func NewLogErrorHandler(title string, onPublic func(err error) error, attrs ...any) *LogErrorHandler {
	return &LogErrorHandler{
		title:    title,
		logger:   slog.With(attrs...),
		onPublic: onPublic,
	}
}

func (e *LogErrorHandler) RenderError(err error) {
	e.logger.Warn("Render error", "title", e.title, "err", err)
}

func (e *LogErrorHandler) PublicError(statusCode int, err error) {
	e.logger.Warn("Public error", "title", e.title, "status", statusCode, "err", err)
	if e.onPublic == nil {
		return
	}
	if handleErr := e.onPublic(err); handleErr != nil {
		e.logger.Warn("Unable to deliver public error", "title", e.title, "err", err, "handleErr", handleErr)
	}
}

func (e *LogErrorHandler) PrivateError(err error) {
	e.logger.Warn("Private error", "title", e.title, "err", err)
}
