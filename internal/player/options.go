package player

import "time"

// Observer receives the player's lifecycle notifications. Callbacks run
// after the player's lock is released, so they may call back into the player.
type Observer interface {
	OnLoad(el *Element)
	OnError(message string)
	OnPlay(el *Element)
	OnPause(el *Element)
	OnEnded(el *Element)
}

// Hooks adapts optional functions to an Observer.
type Hooks struct {
	Load  func(el *Element)
	Error func(message string)
	Play  func(el *Element)
	Pause func(el *Element)
	Ended func(el *Element)
}

func (h Hooks) OnLoad(el *Element) {
	if h.Load != nil {
		h.Load(el)
	}
}

func (h Hooks) OnError(message string) {
	if h.Error != nil {
		h.Error(message)
	}
}

func (h Hooks) OnPlay(el *Element) {
	if h.Play != nil {
		h.Play(el)
	}
}

func (h Hooks) OnPause(el *Element) {
	if h.Pause != nil {
		h.Pause(el)
	}
}

func (h Hooks) OnEnded(el *Element) {
	if h.Ended != nil {
		h.Ended(el)
	}
}

const DefaultPreload = "metadata"
const DefaultFallbackText = "Media unavailable"

type config struct {
	autoplay      bool
	controls      bool
	preload       string
	poster        string
	fallbackText  string
	observer      Observer
	lookupTimeout time.Duration
}

func defaultConfig() config {
	return config{
		controls:     true,
		preload:      DefaultPreload,
		fallbackText: DefaultFallbackText,
		observer:     Hooks{},
	}
}

type Option func(*config)

func WithAutoplay(autoplay bool) Option {
	return func(c *config) { c.autoplay = autoplay }
}

func WithControls(controls bool) Option {
	return func(c *config) { c.controls = controls }
}

func WithPreload(preload string) Option {
	return func(c *config) { c.preload = preload }
}

func WithPoster(poster string) Option {
	return func(c *config) { c.poster = poster }
}

func WithFallbackText(text string) Option {
	return func(c *config) { c.fallbackText = text }
}

func WithObserver(observer Observer) Option {
	return func(c *config) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithLookupTimeout bounds the metadata lookup. A lookup that times out is
// treated like any other lookup failure.
func WithLookupTimeout(timeout time.Duration) Option {
	return func(c *config) { c.lookupTimeout = timeout }
}
