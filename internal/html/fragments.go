package html

import (
	"html/template"
	"io"
	"strings"

	"github.com/btmxh/mediaview/internal/gallery"
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/player"
)

var fragmentTemplate = GetTemplate("fragments")

// elementTemplate names the fragment that presents each media kind.
type elementTemplate struct{}

func (elementTemplate) Video() (string, error)    { return "video", nil }
func (elementTemplate) Audio() (string, error)    { return "audio", nil }
func (elementTemplate) Image() (string, error)    { return "image", nil }
func (elementTemplate) Document() (string, error) { return "document", nil }

type playerData struct {
	Key       string
	Phase     string
	Loading   bool
	Element   template.HTML
	Message   string
	CanRetry  bool
	OOB       bool
	StatusOOB bool
}

type cellData struct {
	gallery.CellView
	State string
	OOB   bool
}

type gridData struct {
	Columns int
	Cells   []cellData
	OOB     bool
}

type lightboxData struct {
	Id      string
	Caption string
	Player  template.HTML
	OOB     bool
}

func execute(w io.Writer, name string, data any) error {
	return fragmentTemplate.ExecuteTemplate(w, name, data)
}

func toHTML(render func(w io.Writer) error) (template.HTML, error) {
	var b strings.Builder
	if err := render(&b); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

func newPlayerData(key string, v player.View) playerData {
	return playerData{
		Key:      key,
		Phase:    v.Phase.String(),
		Loading:  v.Loading,
		Message:  v.Message,
		CanRetry: v.CanRetry,
	}
}

// RenderPlayer writes the player slot identified by key. With oob set the
// fragment replaces the slot already on the page.
func RenderPlayer(w io.Writer, key string, v player.View, oob bool) error {
	data := newPlayerData(key, v)
	data.OOB = oob

	if v.Element != nil {
		name, err := media.Dispatch[string](v.Element.Kind, elementTemplate{})
		if err != nil {
			return err
		}

		data.Element, err = toHTML(func(w io.Writer) error { return execute(w, name, v.Element) })
		if err != nil {
			return err
		}
	}

	return execute(w, "player", data)
}

// RenderPlayerStatus writes only the spinner and error part of the slot, so
// the media element already on the page keeps playing.
func RenderPlayerStatus(w io.Writer, key string, v player.View) error {
	data := newPlayerData(key, v)
	data.StatusOOB = true
	return execute(w, "player-status", data)
}

func PlayerHTML(key string, v player.View, oob bool) (template.HTML, error) {
	return toHTML(func(w io.Writer) error { return RenderPlayer(w, key, v, oob) })
}

func newCellData(cell gallery.CellView, oob bool) cellData {
	return cellData{CellView: cell, State: cell.State.String(), OOB: oob}
}

func RenderGrid(w io.Writer, grid gallery.GridView, oob bool) error {
	data := gridData{Columns: grid.Columns, OOB: oob}
	for _, cell := range grid.Cells {
		data.Cells = append(data.Cells, newCellData(cell, false))
	}
	return execute(w, "grid", data)
}

func GridHTML(grid gallery.GridView, oob bool) (template.HTML, error) {
	return toHTML(func(w io.Writer) error { return RenderGrid(w, grid, oob) })
}

// RenderCell writes a single cell that replaces its earlier rendering.
func RenderCell(w io.Writer, cell gallery.CellView) error {
	return execute(w, "cell", newCellData(cell, true))
}

// RenderLightbox writes the overlay for lb with playerHTML inside it.
func RenderLightbox(w io.Writer, lb gallery.LightboxView, playerHTML template.HTML, oob bool) error {
	return execute(w, "lightbox", lightboxData{
		Id:      lb.Id,
		Caption: lb.Descriptor.CaptionOr(media.UnknownCaption),
		Player:  playerHTML,
		OOB:     oob,
	})
}

func LightboxHTML(lb gallery.LightboxView, playerHTML template.HTML, oob bool) (template.HTML, error) {
	return toHTML(func(w io.Writer) error { return RenderLightbox(w, lb, playerHTML, oob) })
}

func RenderLightboxRemoval(w io.Writer) error {
	return execute(w, "lightbox-removal", nil)
}
