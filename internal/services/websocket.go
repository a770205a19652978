package services

import (
	"errors"
	"html/template"
	"log/slog"
	"strings"

	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/html"
	"golang.org/x/net/websocket"
)

type WebSocketMsgType string

const (
	Handshake WebSocketMsgType = "handshake"
	Swap      WebSocketMsgType = "swap"
)

var GenericError = errors.New("Internal server error.")

type WebSocketMsg struct {
	Type    WebSocketMsgType `json:"type"`
	Payload interface{}      `json:"payload"`
}

func send(id string, ws *websocket.Conn, msg WebSocketMsg) {
	err := websocket.JSON.Send(ws, msg)
	if err != nil {
		slog.Warn("Unable to send WebSocket message to client", "sid", id, "type", msg.Type, "err", err)
	}
}

// Attach registers conn with the session and greets it with its socket id.
func (s *Session) Attach(conn *websocket.Conn) string {
	s.socketMu.Lock()
	defer s.socketMu.Unlock()

	id := newId()
	s.sockets[id] = conn
	send(id, conn, WebSocketMsg{Type: Handshake, Payload: id})
	s.touch()
	return id
}

func (s *Session) Detach(id string) {
	s.socketMu.Lock()
	defer s.socketMu.Unlock()

	delete(s.sockets, id)
	s.touch()
}

func (s *Session) connected() bool {
	s.socketMu.Lock()
	defer s.socketMu.Unlock()

	return len(s.sockets) > 0
}

// Swap pushes an out-of-band fragment to every socket of the session. It is
// dropped when no socket is attached.
func (s *Session) Swap(fragment template.HTML) {
	s.socketMu.Lock()
	defer s.socketMu.Unlock()

	msg := WebSocketMsg{Type: Swap, Payload: string(fragment)}
	for id, conn := range s.sockets {
		send(id, conn, msg)
	}
}

func (s *Session) Toast(toast html.Toast) error {
	var str strings.Builder
	if err := toast.Render(&str); err != nil {
		slog.Warn("error rendering toast notification for WebSocket", "err", err)
		return err
	}

	s.Swap(template.HTML(str.String()))
	return nil
}

// ErrorHandler reports public errors to the browser as toasts.
func (s *Session) ErrorHandler(title string) errs.ErrorHandler {
	return errs.NewLogErrorHandler(title, func(err error) error {
		return s.Toast(html.ErrorToast(html.StringAsHTML(title), html.StringAsHTML(err.Error())))
	}, "session", s.Id)
}
