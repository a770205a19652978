package media

import (
	"errors"
)

type MediaKind string

const (
	MediaKindVideo    MediaKind = "video"
	MediaKindAudio    MediaKind = "audio"
	MediaKindImage    MediaKind = "image"
	MediaKindDocument MediaKind = "document"

	// MediaKindUnknown is the zero value of a hint: the kind has to be detected.
	MediaKindUnknown MediaKind = ""

	UnknownCaption  = "Untitled"
	DocumentCaption = "Document"
)

var ErrInvalidArgument = errors.New("Media ID is not specified")
var ErrMetadataLookupFailed = errors.New("Media metadata lookup failed")
var ErrUnsupportedMediaKind = errors.New("Unsupported media type")
var ErrPlaybackError = errors.New("Failed to load media")
var ErrThumbnailUnavailable = errors.New("Thumbnail unavailable")

// Kinds lists every supported kind, in the order Dispatch handles them.
func Kinds() []MediaKind {
	return []MediaKind{MediaKindVideo, MediaKindAudio, MediaKindImage, MediaKindDocument}
}

func (k MediaKind) Supported() bool {
	for _, kind := range Kinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// Playable kinds are backed by a network source whose readiness is reported
// by the browser.
func (k MediaKind) Playable() bool {
	return k == MediaKindVideo || k == MediaKindAudio || k == MediaKindImage
}

type Descriptor struct {
	Id      string    `json:"id"`
	Kind    MediaKind `json:"type"`
	Caption string    `json:"caption,omitempty"`
	Size    int64     `json:"size,omitempty"`
}

// WithFallback fills the fields d leaves empty from other.
func (d Descriptor) WithFallback(other Descriptor) Descriptor {
	if d.Id == "" {
		d.Id = other.Id
	}
	if d.Kind == MediaKindUnknown {
		d.Kind = other.Kind
	}
	if d.Caption == "" {
		d.Caption = other.Caption
	}
	if d.Size == 0 {
		d.Size = other.Size
	}
	return d
}

func (d Descriptor) CaptionOr(def string) string {
	if d.Caption == "" {
		return def
	}
	return d.Caption
}
