package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/btmxh/mediaview/internal/config"
	"github.com/btmxh/mediaview/internal/mediaapi"
	"github.com/btmxh/mediaview/internal/middlewares"
	"github.com/btmxh/mediaview/internal/player"
	"github.com/btmxh/mediaview/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"
)

type backend struct {
	*httptest.Server
	mu         sync.Mutex
	authHeader string
	failList   bool
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/media/public", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		fail := b.failList
		b.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"media": []map[string]any{
			{"id": "a", "type": "image", "caption": "Sunset", "size": 2048},
			{"id": "b", "type": "video"},
		}})
	})
	mux.HandleFunc("/api/media/a/thumbnail", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg"))
	})
	mux.HandleFunc("/api/media/b", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"media": map[string]any{"id": "b", "type": "video"}})
	})
	mux.HandleFunc("/api/media/a/stream", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.authHeader = r.Header.Get("Authorization")
		b.mu.Unlock()
		w.Write([]byte("stream-a"))
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

type app struct {
	handler  http.Handler
	sessions *services.SessionManager
	cookie   *http.Cookie
}

func newApp(t *testing.T, b *backend, opts ...func(*config.Config)) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.MediaAPIURL = b.URL
	for _, opt := range opts {
		opt(&cfg)
	}

	client := mediaapi.NewClient(mediaapi.Options{BaseURL: b.URL})
	sessions := services.NewSessionManager(client, services.SessionOptions{})
	handler, err := CreateMainRouter(Deps{Config: cfg, Client: client, Sessions: sessions})
	if err != nil {
		t.Fatalf("CreateMainRouter: %v", err)
	}

	return &app{handler: handler, sessions: sessions}
}

func (a *app) do(t *testing.T, method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middlewares.SessionCookieName {
			a.cookie = cookie
		}
	}
	return w
}

func (a *app) session(t *testing.T) *services.Session {
	t.Helper()

	if a.cookie == nil {
		t.Fatalf("no session cookie")
	}
	s, ok := a.sessions.Get(a.cookie.Value)
	if !ok {
		t.Fatalf("session %q not found", a.cookie.Value)
	}
	return s
}

func TestGalleryPage(t *testing.T) {
	a := newApp(t, newBackend(t))

	w := a.do(t, http.MethodGet, "/", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /: status %d", w.Code)
	}

	body := w.Body.String()
	for _, part := range []string{`id="gallery-grid"`, `id="gallery-cell-0"`, `id="gallery-cell-1"`, "Sunset", `id="lightbox"`} {
		if !strings.Contains(body, part) {
			t.Fatalf("expected %q in page", part)
		}
	}

	if got := len(a.session(t).Gallery.Items()); got != 2 {
		t.Fatalf("expected 2 gallery items, got %d", got)
	}
}

func TestGalleryPageBackendDown(t *testing.T) {
	b := newBackend(t)
	b.failList = true
	a := newApp(t, b)

	w := a.do(t, http.MethodGet, "/", nil, false)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Unable to load the media library") {
		t.Fatalf("expected error page, got %s", w.Body.String())
	}
}

func TestLightboxFlow(t *testing.T) {
	a := newApp(t, newBackend(t))
	a.do(t, http.MethodGet, "/", nil, false)
	s := a.session(t)

	w := a.do(t, http.MethodPost, "/gallery/items/a/select", url.Values{}, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("select: status %d, body %s", w.Code, w.Body.String())
	}

	lb := s.Gallery.Lightbox()
	if lb == nil || lb.Descriptor.Id != "a" {
		t.Fatalf("lightbox not open: %+v", lb)
	}
	el := lb.Player.View().Element
	if el == nil {
		t.Fatalf("lightbox player has no element")
	}

	w = a.do(t, http.MethodPost, "/players/lightbox/events", url.Values{"element": {el.Id}, "event": {"load"}}, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("event: status %d", w.Code)
	}
	if phase := lb.Player.View().Phase; phase != player.PhaseReady {
		t.Fatalf("expected ready, got %s", phase)
	}

	// page reload keeps the open lightbox
	if body := a.do(t, http.MethodGet, "/", nil, false).Body.String(); !strings.Contains(body, `data-lightbox="`+lb.Id+`"`) {
		t.Fatalf("lightbox missing from reloaded page")
	}

	w = a.do(t, http.MethodPost, "/gallery/lightbox/close", url.Values{}, true)
	if w.Code != http.StatusNoContent || s.Gallery.Lightbox() != nil {
		t.Fatalf("lightbox should be closed")
	}

	w = a.do(t, http.MethodPost, "/players/lightbox/events", url.Values{"element": {el.Id}, "event": {"play"}}, true)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), middlewares.UnknownPlayerError.Error()) {
		t.Fatalf("expected toast for closed lightbox, got %d %s", w.Code, w.Body.String())
	}
}

func TestSelectUnknownItem(t *testing.T) {
	a := newApp(t, newBackend(t))
	a.do(t, http.MethodGet, "/", nil, false)

	w := a.do(t, http.MethodPost, "/gallery/items/zzz/select", url.Values{}, false)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

var playerKeyPattern = regexp.MustCompile(`data-player="([^"]+)"`)

func TestStandalonePlayer(t *testing.T) {
	a := newApp(t, newBackend(t))

	w := a.do(t, http.MethodGet, "/players/new?id=b", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<video") || !strings.Contains(body, `src="/api/media/b/stream"`) {
		t.Fatalf("expected video player, got %s", body)
	}

	match := playerKeyPattern.FindStringSubmatch(body)
	if match == nil {
		t.Fatalf("no player key in page")
	}
	key := match[1]

	w = a.do(t, http.MethodPost, "/players/"+key+"/events", url.Values{"element": {"x"}, "event": {"explode"}}, false)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown event, got %d", w.Code)
	}

	w = a.do(t, http.MethodPost, "/players/"+key+"/retry", url.Values{}, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("retry: status %d", w.Code)
	}

	w = a.do(t, http.MethodDelete, "/players/"+key, nil, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	if _, ok := a.session(t).Player(key); ok {
		t.Fatalf("player should be gone")
	}
}

func TestStandalonePlayerWithoutId(t *testing.T) {
	a := newApp(t, newBackend(t))

	w := a.do(t, http.MethodGet, "/players/new", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Media ID is not specified") || strings.Contains(body, "/retry") {
		t.Fatalf("expected error without retry, got %s", body)
	}
}

func TestMediaProxy(t *testing.T) {
	b := newBackend(t)
	a := newApp(t, b)
	a.cookie = &http.Cookie{Name: middlewares.AUTH_COOKIE_NAME, Value: "tok"}

	w := a.do(t, http.MethodGet, "/api/media/a/stream", nil, false)
	if w.Code != http.StatusOK || w.Body.String() != "stream-a" {
		t.Fatalf("proxy: %d %q", w.Code, w.Body.String())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.authHeader != "Bearer tok" {
		t.Fatalf("expected forwarded token, got %q", b.authHeader)
	}
}

func TestMediaProxyCORS(t *testing.T) {
	a := newApp(t, newBackend(t), func(cfg *config.Config) {
		cfg.CORSOrigins = []string{"https://lms.example"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/media/a/stream", nil)
	req.Header.Set("Origin", "https://lms.example")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://lms.example" {
		t.Fatalf("expected allowed origin, got %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Range") {
		t.Fatalf("range headers not exposed: %v", w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/media/a/stream", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin should be refused, got %d", w.Code)
	}
}

func TestSessionCookieRefreshed(t *testing.T) {
	a := newApp(t, newBackend(t))
	a.do(t, http.MethodGet, "/", nil, false)
	first := a.cookie
	if first == nil {
		t.Fatalf("no session cookie issued")
	}

	w := a.do(t, http.MethodPost, "/gallery/lightbox/close", url.Values{}, true)
	var refreshed *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middlewares.SessionCookieName {
			refreshed = cookie
		}
	}
	if refreshed == nil {
		t.Fatalf("session cookie was not reissued")
	}
	if refreshed.Value != first.Value || refreshed.MaxAge <= 0 {
		t.Fatalf("expected the same session with a fresh max-age, got %+v", refreshed)
	}
}

func dialSocket(t *testing.T, server *httptest.Server, cookie *http.Cookie, path string) *websocket.Conn {
	t.Helper()

	cfg, err := websocket.NewConfig("ws"+strings.TrimPrefix(server.URL, "http")+path, server.URL)
	if err != nil {
		t.Fatalf("websocket config: %v", err)
	}
	cfg.Header = http.Header{"Cookie": {cookie.Name + "=" + cookie.Value}}

	conn, err := websocket.DialConfig(cfg)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })

	var hello services.WebSocketMsg
	if err := websocket.JSON.Receive(conn, &hello); err != nil || hello.Type != services.Handshake {
		t.Fatalf("expected handshake, got %+v (%v)", hello, err)
	}
	return conn
}

func TestSocketReloadsOnlyGallery(t *testing.T) {
	a := newApp(t, newBackend(t))
	a.do(t, http.MethodGet, "/", nil, false)
	server := httptest.NewServer(a.handler)
	t.Cleanup(server.Close)

	plain := dialSocket(t, server, a.cookie, "/ws")
	plain.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var msg services.WebSocketMsg
	if err := websocket.JSON.Receive(plain, &msg); err == nil {
		t.Fatalf("player page socket received %+v", msg)
	}

	grid := dialSocket(t, server, a.cookie, "/ws?gallery=1")
	grid.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if err := websocket.JSON.Receive(grid, &msg); err != nil {
			t.Fatalf("gallery socket got no grid: %v", err)
		}
		if payload, _ := msg.Payload.(string); msg.Type == services.Swap && strings.Contains(payload, `id="gallery-grid"`) {
			break
		}
	}
}
