package html

import (
	"strings"
	"testing"

	"github.com/btmxh/mediaview/internal/gallery"
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/player"
)

func render(t *testing.T, f func(b *strings.Builder) error) string {
	t.Helper()

	var b strings.Builder
	if err := f(&b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func expectContains(t *testing.T, out string, parts ...string) {
	t.Helper()

	for _, part := range parts {
		if !strings.Contains(out, part) {
			t.Fatalf("expected %q in output:\n%s", part, out)
		}
	}
}

func TestRenderVideoPlayer(t *testing.T) {
	view := player.View{
		Phase: player.PhaseLoading,
		Element: &player.Element{
			Id:           "el1",
			Kind:         media.MediaKindVideo,
			MediaId:      "abc",
			Src:          media.StreamPath("abc"),
			Controls:     true,
			Preload:      "metadata",
			Poster:       "/poster.jpg",
			FallbackText: "Media unavailable",
		},
	}

	out := render(t, func(b *strings.Builder) error { return RenderPlayer(b, "p1", view, true) })
	expectContains(t, out,
		`id="player-p1"`,
		`hx-swap-oob="true"`,
		`<video`,
		`data-element="el1"`,
		`src="/api/media/abc/stream"`,
		` controls`,
		`poster="/poster.jpg"`,
		`media-player__spinner`,
	)
	if strings.Contains(out, " autoplay") {
		t.Fatalf("autoplay should be off:\n%s", out)
	}
}

func TestRenderDocumentPlayer(t *testing.T) {
	view := player.View{
		Phase: player.PhaseReady,
		Element: &player.Element{
			Id:          "el2",
			Kind:        media.MediaKindDocument,
			Caption:      "Syllabus <2024>",
			Size:         "1.5 KB",
			DownloadURL:  media.StreamPath("doc"),
			DownloadName: "syllabus-2024",
		},
	}

	out := render(t, func(b *strings.Builder) error { return RenderPlayer(b, "p2", view, false) })
	expectContains(t, out, "Syllabus &lt;2024&gt;", "1.5 KB", `href="/api/media/doc/stream"`, `download="syllabus-2024"`)
	if strings.Contains(out, "hx-swap-oob") || strings.Contains(out, "media-player__spinner") {
		t.Fatalf("unexpected markup:\n%s", out)
	}
}

func TestRenderPlayerError(t *testing.T) {
	view := player.View{Phase: player.PhaseError, Message: media.ErrPlaybackError.Error(), CanRetry: true}

	out := render(t, func(b *strings.Builder) error { return RenderPlayer(b, "p3", view, true) })
	expectContains(t, out, "Failed to load media", `hx-post="/players/p3/retry"`)

	view.CanRetry = false
	out = render(t, func(b *strings.Builder) error { return RenderPlayer(b, "p3", view, true) })
	if strings.Contains(out, "retry") {
		t.Fatalf("retry button should be hidden:\n%s", out)
	}
}

func TestRenderPlayerStatus(t *testing.T) {
	view := player.View{
		Phase:   player.PhaseReady,
		Loading: true,
		Element: &player.Element{Id: "el5", Kind: media.MediaKindImage, Src: "/img"},
	}

	out := render(t, func(b *strings.Builder) error { return RenderPlayerStatus(b, "p5", view) })
	expectContains(t, out, `id="player-p5-status"`, `hx-swap-oob="true"`, "media-player__status--loading", "media-player__spinner")
	if strings.Contains(out, "data-element") || strings.Contains(out, `id="player-p5"`) {
		t.Fatalf("status must not carry the media element:\n%s", out)
	}

	// nested in a full slot the status is swapped along with it
	out = render(t, func(b *strings.Builder) error { return RenderPlayer(b, "p5", view, true) })
	if n := strings.Count(out, "hx-swap-oob"); n != 1 {
		t.Fatalf("expected one oob marker in the slot, got %d:\n%s", n, out)
	}
	expectContains(t, out, `data-element="el5"`, `id="player-p5-status"`)
}

func TestRenderUnsupportedElement(t *testing.T) {
	view := player.View{Phase: player.PhaseReady, Element: &player.Element{Id: "x", Kind: "hologram"}}

	var b strings.Builder
	if err := RenderPlayer(&b, "p4", view, true); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}

func TestRenderGrid(t *testing.T) {
	grid := gallery.GridView{
		Columns: 4,
		Cells: []gallery.CellView{
			{Index: 0, Descriptor: media.Descriptor{Id: "a b", Kind: media.MediaKindImage}, Caption: "A", State: gallery.ThumbnailReady, Thumbnail: "/t/a.jpg"},
			{Index: 1, Descriptor: media.Descriptor{Id: "c", Kind: media.MediaKindAudio}, Caption: "C", State: gallery.ThumbnailUnavailable},
		},
	}

	out := render(t, func(b *strings.Builder) error { return RenderGrid(b, grid, true) })
	expectContains(t, out,
		`id="gallery-grid"`,
		`--columns: 4`,
		`id="gallery-cell-0"`,
		`hx-post="/gallery/items/a%20b/select"`,
		`src="/t/a.jpg"`,
		`media-gallery__thumbnail--placeholder`,
	)
	// cells inside a grid swap together with it
	if strings.Count(out, "hx-swap-oob") != 1 {
		t.Fatalf("expected a single oob marker:\n%s", out)
	}
}

func TestRenderEmptyGrid(t *testing.T) {
	out := render(t, func(b *strings.Builder) error { return RenderGrid(b, gallery.GridView{Columns: 3}, false) })
	expectContains(t, out, "No media yet.")
}

func TestRenderCell(t *testing.T) {
	cell := gallery.CellView{Index: 2, Descriptor: media.Descriptor{Id: "d"}, Caption: "D", State: gallery.ThumbnailPending}

	out := render(t, func(b *strings.Builder) error { return RenderCell(b, cell) })
	expectContains(t, out, `id="gallery-cell-2"`, `hx-swap-oob="true"`, "media-gallery__thumbnail--pending", `aria-label="Item 3: D"`)
}

func TestRenderLightbox(t *testing.T) {
	lb := gallery.LightboxView{Id: "lb1", Descriptor: media.Descriptor{Id: "a", Caption: "Sunset"}}
	playerHTML, err := PlayerHTML("lightbox", player.View{}, false)
	if err != nil {
		t.Fatalf("PlayerHTML: %v", err)
	}

	out := render(t, func(b *strings.Builder) error { return RenderLightbox(b, lb, playerHTML, true) })
	expectContains(t, out, `id="lightbox"`, `data-lightbox="lb1"`, `aria-label="Sunset"`, `id="player-lightbox"`, "/gallery/lightbox/close")

	out = render(t, func(b *strings.Builder) error { return RenderLightboxRemoval(b) })
	expectContains(t, out, `id="lightbox"`, `hx-swap-oob="true"`)
	if strings.Contains(out, "player-") {
		t.Fatalf("removal should not contain a player:\n%s", out)
	}
}

func TestRenderToast(t *testing.T) {
	out := render(t, func(b *strings.Builder) error {
		return ErrorToast("Error", StringAsHTML("<bad>")).Render(b)
	})
	expectContains(t, out, "toast--error", "&lt;bad&gt;", "beforeend:#toasts")
}
