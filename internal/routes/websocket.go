package routes

import (
	"context"
	"errors"
	"log/slog"

	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/middlewares"
	"github.com/btmxh/mediaview/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"
)

func WebSocketRouter(g *gin.RouterGroup) {
	g.GET("", func(c *gin.Context) {
		s := middlewares.GetSession(c)
		ctx := c.Request.Context()
		// only the gallery page has thumbnails to fetch
		gallery := c.Query("gallery") == "1"

		websocket.Handler(func(conn *websocket.Conn) {
			defer conn.Close()

			socketId := s.Attach(conn)
			defer s.Detach(socketId)

			if gallery {
				loadCtx, cancel := context.WithCancel(ctx)
				defer cancel()
				go func() {
					if err := s.Reload(loadCtx); err != nil && !errors.Is(err, context.Canceled) {
						errs.Report(s.ErrorHandler("Unable to load thumbnails"), err, services.GenericError)
					}
				}()
			}

			for {
				var msg services.WebSocketMsg
				if err := websocket.JSON.Receive(conn, &msg); err != nil {
					slog.Info("WebSocket connection closed or error", "sid", socketId, "err", err)
					break
				}

				slog.Debug("Received from WebSocket", "sid", socketId, "msg", msg)
			}
		}).ServeHTTP(c.Writer, c.Request)
	})
}
