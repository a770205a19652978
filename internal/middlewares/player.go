package middlewares

import (
	"errors"
	"net/http"

	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/player"
	"github.com/gin-gonic/gin"
)

var UnknownPlayerError = errors.New("This player no longer exists.")

const playerContextKey = "player"
const playerKeyContextKey = "player-key"

// PlayerMiddleware resolves the :key parameter to a player of the session.
func PlayerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		handler := errs.NewGinErrorHandler(c, "Player error")
		key := c.Param("key")

		p, ok := GetSession(c).Player(key)
		if !ok {
			handler.PublicError(http.StatusNotFound, UnknownPlayerError)
			c.Abort()
			return
		}

		c.Set(playerKeyContextKey, key)
		c.Set(playerContextKey, p)
		c.Next()
	}
}

func GetPlayer(c *gin.Context) (string, *player.Player) {
	if value, ok := c.Get(playerContextKey); ok && value != nil {
		p, ok := value.(*player.Player)
		if ok {
			return c.GetString(playerKeyContextKey), p
		}
	}

	panic("Player not set, please check the usage of PlayerMiddleware")
}
