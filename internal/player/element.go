package player

import (
	"github.com/btmxh/mediaview/internal/media"
	"github.com/dchest/uniuri"
	"github.com/gosimple/slug"
)

// Element is the presentation surface for one media item. It is never
// modified after construction.
type Element struct {
	// Id is the handle the browser echoes back with native events.
	Id      string
	Kind    media.MediaKind
	MediaId string
	Src     string

	Controls     bool
	Autoplay     bool
	Preload      string
	Poster       string
	FallbackText string

	Caption      string
	Size         string
	DownloadURL  string
	// DownloadName is the file name suggested for DownloadURL.
	DownloadName string
}

type elementBuilder struct {
	cfg  *config
	desc media.Descriptor
	src  string
}

func (b *elementBuilder) base() *Element {
	return &Element{
		Id:      uniuri.NewLen(12),
		Kind:    b.desc.Kind,
		MediaId: b.desc.Id,
	}
}

func (b *elementBuilder) playable() *Element {
	el := b.base()
	el.Src = b.src
	el.Controls = b.cfg.controls
	el.Autoplay = b.cfg.autoplay
	el.Preload = b.cfg.preload
	el.FallbackText = b.cfg.fallbackText
	return el
}

func (b *elementBuilder) Video() (*Element, error) {
	el := b.playable()
	el.Poster = b.cfg.poster
	return el, nil
}

func (b *elementBuilder) Audio() (*Element, error) {
	return b.playable(), nil
}

func (b *elementBuilder) Image() (*Element, error) {
	el := b.base()
	el.Src = b.src
	el.Caption = b.desc.CaptionOr(media.UnknownCaption)
	return el, nil
}

func (b *elementBuilder) Document() (*Element, error) {
	el := b.base()
	el.Caption = b.desc.CaptionOr(media.DocumentCaption)
	el.Size = media.FormatSize(b.desc.Size)
	el.DownloadURL = b.src
	el.DownloadName = slug.Make(el.Caption)
	return el, nil
}
