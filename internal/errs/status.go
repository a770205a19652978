package errs

import (
	"errors"
	"net/http"

	"github.com/btmxh/mediaview/internal/media"
)

// StatusCode maps media errors to the HTTP status they are reported with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, media.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, media.ErrUnsupportedMediaKind):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, media.ErrMetadataLookupFailed), errors.Is(err, media.ErrThumbnailUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
