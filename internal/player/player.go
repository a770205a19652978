// Package player drives a single media item: it resolves the media kind,
// builds the matching presentation element, and tracks loading and error
// state until the browser reports the element ready or broken.
package player

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/btmxh/mediaview/internal/media"
)

// ErrSuperseded is returned by LoadMedia when a newer LoadMedia or a Destroy
// happened while it was waiting for metadata. The stale result is dropped.
var ErrSuperseded = errors.New("Media load superseded")

// ErrDestroyed is returned by LoadMedia on a destroyed player.
var ErrDestroyed = errors.New("Media player destroyed")

type Source interface {
	Lookup(ctx context.Context, id string) (media.Descriptor, error)
	StreamURL(id string) string
}

type Player struct {
	mu        sync.Mutex
	container Container
	source    Source
	cfg       config

	phase   Phase
	mediaId string
	hint    media.Descriptor
	element *Element
	loading bool
	message string
	// destroyed players never render again
	destroyed bool

	// generation changes on every LoadMedia and Destroy; async work started
	// under an older generation must not touch the state.
	generation uint64
	cancel     context.CancelFunc
}

func New(container Container, source Source, opts ...Option) *Player {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Player{container: container, source: source, cfg: cfg}
	p.container.Render(View{})
	return p
}

type State struct {
	Phase   Phase
	MediaId string
	Hint    media.Descriptor
	Element *Element
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return State{Phase: p.phase, MediaId: p.mediaId, Hint: p.hint, Element: p.element}
}

func (p *Player) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.view()
}

func (p *Player) view() View {
	return View{
		Phase:    p.phase,
		Element:  p.element,
		Loading:  p.loading,
		Message:  p.message,
		CanRetry: p.phase == PhaseError && p.mediaId != "",
	}
}

func (p *Player) render() {
	p.container.Render(p.view())
}

// reset tears down whatever the previous load left behind and starts a new
// generation. Must hold p.mu.
func (p *Player) reset() uint64 {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	p.generation++
	p.element = nil
	p.loading = false
	p.message = ""
	return p.generation
}

// fail moves to the error phase and returns the notification to deliver once
// the lock is released. Must hold p.mu.
func (p *Player) fail(err error) func() {
	p.phase = PhaseError
	p.element = nil
	p.loading = false
	p.message = err.Error()
	p.render()

	observer, message := p.cfg.observer, p.message
	return func() { observer.OnError(message) }
}

// LoadMedia replaces whatever the player shows with the media item mediaId.
// A hint with a known kind skips the metadata lookup. Failures are also
// reported through the observer and shown in the container.
func (p *Player) LoadMedia(ctx context.Context, mediaId string, hint media.Descriptor) error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		slog.Debug("Ignoring media load on destroyed player", "id", mediaId)
		return ErrDestroyed
	}
	gen := p.reset()

	if mediaId == "" {
		p.mediaId = ""
		p.hint = media.Descriptor{}
		notify := p.fail(media.ErrInvalidArgument)
		p.mu.Unlock()
		notify()
		return media.ErrInvalidArgument
	}

	p.mediaId = mediaId
	p.hint = hint
	p.phase = PhaseLoading
	p.render()

	desc := hint
	desc.Id = mediaId

	if hint.Kind == media.MediaKindUnknown {
		lookupCtx, cancel := p.lookupContext(ctx)
		p.cancel = cancel
		p.mu.Unlock()

		found, err := p.source.Lookup(lookupCtx, mediaId)
		cancel()

		p.mu.Lock()
		if gen != p.generation {
			p.mu.Unlock()
			slog.Debug("Dropping superseded media load", "id", mediaId)
			return ErrSuperseded
		}
		p.cancel = nil

		if err != nil {
			slog.Warn("Media type detection failed, assuming video", "id", mediaId, "err", err)
			desc.Kind = media.MediaKindVideo
		} else {
			desc = desc.WithFallback(found)
		}
	}

	el, err := media.Dispatch[*Element](desc.Kind, &elementBuilder{
		cfg:  &p.cfg,
		desc: desc,
		src:  p.source.StreamURL(mediaId),
	})
	if err != nil {
		notify := p.fail(err)
		p.mu.Unlock()
		notify()
		return err
	}

	p.element = el
	notify := func() {}
	if !desc.Kind.Playable() {
		p.phase = PhaseReady
		observer := p.cfg.observer
		notify = func() { observer.OnLoad(el) }
	}
	p.render()
	p.mu.Unlock()

	notify()
	return nil
}

func (p *Player) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.lookupTimeout > 0 {
		return context.WithTimeout(ctx, p.cfg.lookupTimeout)
	}
	return context.WithCancel(ctx)
}

// Retry repeats the last LoadMedia call. It does nothing if there is none.
func (p *Player) Retry(ctx context.Context) error {
	p.mu.Lock()
	mediaId, hint := p.mediaId, p.hint
	p.mu.Unlock()

	if mediaId == "" {
		return nil
	}

	return p.LoadMedia(ctx, mediaId, hint)
}

// Destroy detaches the element and clears the container. Pending lookups,
// late native events and later loads are ignored afterwards.
func (p *Player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return
	}
	p.destroyed = true
	p.reset()
	p.phase = PhaseIdle
	p.mediaId = ""
	p.hint = media.Descriptor{}
	p.render()
}
