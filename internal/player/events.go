package player

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/btmxh/mediaview/internal/media"
)

// Event is a native media-element event reported by the browser.
type Event string

const (
	EventLoadStart Event = "loadstart"
	EventCanPlay   Event = "canplay"
	EventLoad      Event = "load"
	EventError     Event = "error"
	EventPlay      Event = "play"
	EventPause     Event = "pause"
	EventEnded     Event = "ended"
)

var ErrUnknownEvent = errors.New("Unknown media event")

func ParseEvent(s string) (Event, error) {
	switch ev := Event(s); ev {
	case EventLoadStart, EventCanPlay, EventLoad, EventError, EventPlay, EventPause, EventEnded:
		return ev, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// HandleEvent applies a native event reported for elementId. Events for an
// element that is no longer attached are dropped and false is returned.
func (p *Player) HandleEvent(elementId string, ev Event) bool {
	p.mu.Lock()

	el := p.element
	if el == nil || el.Id != elementId {
		p.mu.Unlock()
		slog.Debug("Ignoring event for detached element", "element", elementId, "event", ev)
		return false
	}

	observer := p.cfg.observer
	notify := func() {}

	switch ev {
	case EventLoadStart:
		if !p.loading {
			p.loading = true
			p.render()
		}
	case EventCanPlay, EventLoad:
		changed := p.loading
		p.loading = false
		if p.phase == PhaseLoading {
			p.phase = PhaseReady
			changed = true
			notify = func() { observer.OnLoad(el) }
		}
		if changed {
			p.render()
		}
	case EventError:
		slog.Warn("Media element reported an error", "id", el.MediaId, "kind", el.Kind)
		notify = p.fail(media.ErrPlaybackError)
	case EventPlay:
		notify = func() { observer.OnPlay(el) }
	case EventPause:
		notify = func() { observer.OnPause(el) }
	case EventEnded:
		notify = func() { observer.OnEnded(el) }
	default:
		p.mu.Unlock()
		return false
	}

	p.mu.Unlock()
	notify()
	return true
}
