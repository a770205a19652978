package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btmxh/mediaview/internal/gallery"
	"github.com/btmxh/mediaview/internal/player"
	"github.com/dchest/uniuri"
	"golang.org/x/net/websocket"
)

const DefaultSessionTTL = 30 * time.Minute

func newId() string {
	return uniuri.New()
}

type SessionOptions struct {
	Gallery  []gallery.Option
	Player   []player.Option
	Recorder *PlaybackRecorder
}

// Session is the server-side state of one browser: its gallery, standalone
// players and sockets.
type Session struct {
	Id      string
	Gallery *gallery.Gallery
	Surface *SwapSurface

	source gallery.Source
	opts   SessionOptions

	mu      sync.Mutex
	players map[string]*player.Player

	socketMu sync.Mutex
	sockets  map[string]*websocket.Conn

	lastSeen atomic.Int64
}

func newSession(id string, source gallery.Source, opts SessionOptions) *Session {
	s := &Session{
		Id:      id,
		source:  source,
		opts:    opts,
		players: make(map[string]*player.Player),
		sockets: make(map[string]*websocket.Conn),
	}
	s.touch()
	s.Surface = NewSwapSurface(s)

	lightboxOpts := append(slices.Clone(opts.Player), player.WithObserver(opts.Recorder.Observer(id, s.lightboxMediaId)))
	galleryOpts := append(slices.Clone(opts.Gallery), gallery.WithPlayerOptions(lightboxOpts...))
	s.Gallery = gallery.New(s.Surface, source, galleryOpts...)
	return s
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) lightboxMediaId() string {
	if lb := s.Gallery.Lightbox(); lb != nil {
		return lb.Descriptor.Id
	}
	return ""
}

// Reload runs the gallery over its current items again, refetching
// thumbnails.
func (s *Session) Reload(ctx context.Context) error {
	return s.Gallery.LoadMedia(ctx, s.Gallery.Items())
}

// NewPlayer creates a standalone player whose slot is addressed by the
// returned key.
func (s *Session) NewPlayer() (string, *player.Player) {
	key := newId()

	var p *player.Player
	observer := s.opts.Recorder.Observer(s.Id, func() string { return p.State().MediaId })
	opts := append(slices.Clone(s.opts.Player), player.WithObserver(observer))
	p = player.New(s.Surface.Player(key), s.source, opts...)

	s.mu.Lock()
	s.players[key] = p
	s.mu.Unlock()

	s.touch()
	return key, p
}

func (s *Session) Player(key string) (*player.Player, bool) {
	s.touch()

	if key == LightboxKey {
		if lb := s.Gallery.Lightbox(); lb != nil {
			return lb.Player, true
		}
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[key]
	return p, ok
}

// DestroyPlayer tears down the player behind key. The lightbox player is
// closed together with its overlay.
func (s *Session) DestroyPlayer(key string) bool {
	if key == LightboxKey {
		if s.Gallery.Lightbox() == nil {
			return false
		}
		s.Gallery.CloseLightbox()
		return true
	}

	s.mu.Lock()
	p, ok := s.players[key]
	delete(s.players, key)
	s.mu.Unlock()

	if ok {
		p.Destroy()
	}
	return ok
}

func (s *Session) Close() {
	s.Gallery.Close()

	s.mu.Lock()
	players := s.players
	s.players = make(map[string]*player.Player)
	s.mu.Unlock()

	for _, p := range players {
		p.Destroy()
	}
}

type SessionManager struct {
	source gallery.Source
	opts   SessionOptions

	mutex    sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager(source gallery.Source, opts SessionOptions) *SessionManager {
	return &SessionManager{source: source, opts: opts, sessions: make(map[string]*Session)}
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, or a fresh session with a new id
// when id is unknown.
func (m *SessionManager) GetOrCreate(id string) *Session {
	if s, ok := m.Get(id); ok {
		s.touch()
		return s
	}

	s := newSession(newId(), m.source, m.opts)

	m.mutex.Lock()
	m.sessions[s.Id] = s
	m.mutex.Unlock()

	slog.Debug("Session created", "sid", s.Id)
	return s
}

// Sweep closes sessions without sockets that were idle longer than ttl.
func (m *SessionManager) Sweep(ttl time.Duration) int {
	deadline := time.Now().Add(-ttl)

	m.mutex.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if !s.connected() && s.LastSeen().Before(deadline) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mutex.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		slog.Info("Swept idle sessions", "count", len(expired))
	}
	return len(expired)
}

func (m *SessionManager) Run(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ttl)
		}
	}
}

func (m *SessionManager) Close() {
	m.mutex.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mutex.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
