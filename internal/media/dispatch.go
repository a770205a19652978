package media

import "fmt"

// Presenter builds one value per media kind. Every kind in Kinds has a method
// here, so a new kind cannot be added without every presenter handling it.
type Presenter[T any] interface {
	Video() (T, error)
	Audio() (T, error)
	Image() (T, error)
	Document() (T, error)
}

func Dispatch[T any](kind MediaKind, p Presenter[T]) (T, error) {
	switch kind {
	case MediaKindVideo:
		return p.Video()
	case MediaKindAudio:
		return p.Audio()
	case MediaKindImage:
		return p.Image()
	case MediaKindDocument:
		return p.Document()
	}

	var zero T
	return zero, fmt.Errorf("%w: %q", ErrUnsupportedMediaKind, string(kind))
}
