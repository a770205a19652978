package gallery

import (
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/player"
)

type ThumbnailState int

const (
	// ThumbnailDisabled cells show captions only.
	ThumbnailDisabled ThumbnailState = iota
	ThumbnailPending
	ThumbnailReady
	ThumbnailUnavailable
)

func (s ThumbnailState) String() string {
	switch s {
	case ThumbnailDisabled:
		return "disabled"
	case ThumbnailPending:
		return "pending"
	case ThumbnailReady:
		return "ready"
	case ThumbnailUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type CellView struct {
	Index      int
	Descriptor media.Descriptor
	Caption    string
	Size       string
	Thumbnail  string
	State      ThumbnailState
}

type GridView struct {
	Columns int
	Cells   []CellView
}

type LightboxView struct {
	Id         string
	Descriptor media.Descriptor
}

// Surface displays a gallery. Its methods are called with the gallery's lock
// held and must not call back into the gallery.
type Surface interface {
	RenderGrid(v GridView)
	RenderCell(v CellView)
	// OpenLightbox shows the overlay and returns the container for its player.
	OpenLightbox(v LightboxView) player.Container
	CloseLightbox(v LightboxView)
}

func newCell(index int, desc media.Descriptor, thumbnails bool) CellView {
	cell := CellView{
		Index:      index,
		Descriptor: desc,
		Caption:    desc.CaptionOr(media.UnknownCaption),
		Size:       media.FormatSize(desc.Size),
	}
	if thumbnails {
		cell.State = ThumbnailPending
	}
	return cell
}
