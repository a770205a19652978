package media

import (
	"net/url"
	"strconv"
	"strings"
)

const APIPrefix = "/api/media"
const PublicListPath = APIPrefix + "/public"

func MetadataPath(id string) string {
	return APIPrefix + "/" + url.PathEscape(id)
}

func ThumbnailPath(id string) string {
	return MetadataPath(id) + "/thumbnail"
}

func StreamPath(id string) string {
	return MetadataPath(id) + "/stream"
}

// JoinURL prefixes path with base, which may be empty (same origin).
func JoinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + path
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count in binary units with at most two decimals,
// e.g. 1536 -> "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	// round to two decimals, then drop trailing zeros
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 2, 64), 64)
	if err != nil {
		rounded = value
	}

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}
