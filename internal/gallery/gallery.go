// Package gallery renders a grid of media items with thumbnails and opens a
// single lightbox player on selection.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/player"
	"github.com/dchest/uniuri"
	"golang.org/x/sync/errgroup"
)

type Source interface {
	player.Source
	Thumbnail(ctx context.Context, id string) (string, error)
}

type Lightbox struct {
	Id         string
	Descriptor media.Descriptor
	Player     *player.Player
}

func (lb *Lightbox) view() LightboxView {
	return LightboxView{Id: lb.Id, Descriptor: lb.Descriptor}
}

type Gallery struct {
	mu      sync.Mutex
	surface Surface
	source  Source
	cfg     config

	items      []media.Descriptor
	cells      []CellView
	generation uint64
	lightbox   *Lightbox
}

func New(surface Surface, source Source, opts ...Option) *Gallery {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Gallery{surface: surface, source: source, cfg: cfg}
	g.surface.RenderGrid(g.gridView())
	return g
}

func (g *Gallery) gridView() GridView {
	return GridView{Columns: g.cfg.columns, Cells: slices.Clone(g.cells)}
}

func (g *Gallery) View() GridView {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.gridView()
}

func (g *Gallery) Items() []media.Descriptor {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.items)
}

// LoadMedia replaces the grid with one cell per item, then resolves the
// thumbnails concurrently. It returns once every cell is resolved. A failed
// thumbnail only turns its own cell into a placeholder.
func (g *Gallery) LoadMedia(ctx context.Context, items []media.Descriptor) error {
	gen := g.Prepare(items)
	if !g.cfg.showThumbnails {
		return nil
	}

	var group errgroup.Group
	group.SetLimit(g.cfg.thumbnailConcurrency)
	for i, item := range items {
		group.Go(func() error {
			thumbnail, err := g.source.Thumbnail(ctx, item.Id)
			if err != nil {
				slog.Debug("No thumbnail for gallery item", "id", item.Id, "err", err)
			}
			g.resolveCell(gen, i, thumbnail, err)
			return nil
		})
	}

	return group.Wait()
}

// Prepare replaces the grid with pending cells for items without fetching
// any thumbnail. Results of earlier loads are dropped from now on.
func (g *Gallery) Prepare(items []media.Descriptor) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	g.items = slices.Clone(items)
	g.cells = make([]CellView, len(items))
	for i, item := range items {
		g.cells[i] = newCell(i, item, g.cfg.showThumbnails)
	}
	g.surface.RenderGrid(g.gridView())
	return g.generation
}

func (g *Gallery) resolveCell(gen uint64, index int, thumbnail string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.generation || index >= len(g.cells) {
		return
	}

	cell := &g.cells[index]
	if err != nil || thumbnail == "" {
		cell.State = ThumbnailUnavailable
	} else {
		cell.State = ThumbnailReady
		cell.Thumbnail = thumbnail
	}

	g.surface.RenderCell(*cell)
}

// Select handles a click on the cell of mediaId.
func (g *Gallery) Select(ctx context.Context, mediaId string) error {
	g.mu.Lock()
	index := slices.IndexFunc(g.items, func(d media.Descriptor) bool { return d.Id == mediaId })
	var desc media.Descriptor
	if index >= 0 {
		desc = g.items[index]
	}
	onItemClick, enableLightbox := g.cfg.onItemClick, g.cfg.enableLightbox
	g.mu.Unlock()

	if index < 0 {
		return fmt.Errorf("%w: %q is not in the gallery", media.ErrInvalidArgument, mediaId)
	}

	if onItemClick != nil {
		onItemClick(desc)
		return nil
	}

	if !enableLightbox {
		return nil
	}

	return g.OpenLightbox(ctx, desc)
}

// OpenLightbox shows desc in the overlay, replacing any open lightbox.
func (g *Gallery) OpenLightbox(ctx context.Context, desc media.Descriptor) error {
	g.mu.Lock()
	g.closeLightbox()

	lb := &Lightbox{Id: uniuri.NewLen(10), Descriptor: desc}
	container := g.surface.OpenLightbox(lb.view())
	opts := append(slices.Clone(g.cfg.playerOptions), player.WithControls(true), player.WithAutoplay(true))
	lb.Player = player.New(container, g.source, opts...)
	g.lightbox = lb
	g.mu.Unlock()

	// a concurrent close or reopen may have destroyed lb already
	err := lb.Player.LoadMedia(ctx, desc.Id, desc)
	if errors.Is(err, player.ErrSuperseded) || errors.Is(err, player.ErrDestroyed) {
		return nil
	}
	return err
}

// CloseLightbox stops the lightbox player before removing the overlay.
func (g *Gallery) CloseLightbox() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closeLightbox()
}

func (g *Gallery) closeLightbox() {
	if g.lightbox == nil {
		return
	}

	g.lightbox.Player.Destroy()
	g.surface.CloseLightbox(g.lightbox.view())
	g.lightbox = nil
}

func (g *Gallery) Lightbox() *Lightbox {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.lightbox
}

// Close drops pending thumbnail results and closes the lightbox.
func (g *Gallery) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	g.closeLightbox()
}
