package middlewares

import (
	"net/http"
	"time"

	"github.com/btmxh/mediaview/internal/services"
	"github.com/gin-gonic/gin"
)

const SessionCookieName = "mediaview_session"
const sessionContextKey = "session"

// SessionMiddleware attaches the browser's session, creating one when the
// cookie is missing or stale. The cookie is reissued on every request so it
// expires together with the idle session rather than at a fixed time after
// creation.
func SessionMiddleware(manager *services.SessionManager, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookieName)
		s := manager.GetOrCreate(id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, s.Id, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)

		c.Set(sessionContextKey, s)
		c.Next()
	}
}

func GetSession(c *gin.Context) *services.Session {
	if value, ok := c.Get(sessionContextKey); ok && value != nil {
		s, ok := value.(*services.Session)
		if ok {
			return s
		}
	}

	panic("Session not set, please check the usage of SessionMiddleware")
}
