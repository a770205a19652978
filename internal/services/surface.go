package services

import (
	"html/template"
	"log/slog"
	"strings"

	"github.com/btmxh/mediaview/internal/gallery"
	"github.com/btmxh/mediaview/internal/html"
	"github.com/btmxh/mediaview/internal/player"
)

// LightboxKey addresses the player inside the gallery lightbox.
const LightboxKey = "lightbox"

type swapper interface {
	Swap(fragment template.HTML)
}

// SwapSurface shows a gallery and its players by pushing fragments over the
// session's sockets.
type SwapSurface struct {
	out swapper
}

func NewSwapSurface(out swapper) *SwapSurface {
	return &SwapSurface{out: out}
}

func (s *SwapSurface) push(what string, render func(w *strings.Builder) error) {
	var b strings.Builder
	if err := render(&b); err != nil {
		slog.Warn("Unable to render fragment", "fragment", what, "err", err)
		return
	}
	s.out.Swap(template.HTML(b.String()))
}

func (s *SwapSurface) RenderGrid(v gallery.GridView) {
	s.push("grid", func(w *strings.Builder) error { return html.RenderGrid(w, v, true) })
}

func (s *SwapSurface) RenderCell(v gallery.CellView) {
	s.push("cell", func(w *strings.Builder) error { return html.RenderCell(w, v) })
}

func (s *SwapSurface) OpenLightbox(v gallery.LightboxView) player.Container {
	s.push("lightbox", func(w *strings.Builder) error {
		slot, err := html.PlayerHTML(LightboxKey, player.View{}, false)
		if err != nil {
			return err
		}
		return html.RenderLightbox(w, v, slot, true)
	})
	return s.Player(LightboxKey)
}

func (s *SwapSurface) CloseLightbox(v gallery.LightboxView) {
	s.push("lightbox removal", func(w *strings.Builder) error { return html.RenderLightboxRemoval(w) })
}

// Player returns the container for the player slot identified by key. The
// media element is pushed only when it changes; marker and phase updates for
// the same element replace the status part alone.
func (s *SwapSurface) Player(key string) player.Container {
	// the owning player serializes renders
	var shown string
	return player.ContainerFunc(func(v player.View) {
		if v.Element != nil && v.Element.Id == shown {
			s.push("player status", func(w *strings.Builder) error { return html.RenderPlayerStatus(w, key, v) })
			return
		}

		shown = ""
		if v.Element != nil {
			shown = v.Element.Id
		}
		s.push("player", func(w *strings.Builder) error { return html.RenderPlayer(w, key, v, true) })
	})
}
