// middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const AnonymousPlayer = "anonymous"

// PlayerContextMiddleware attaches the player identity set by the Gateway.
// Requests without one play as AnonymousPlayer.
func PlayerContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID := strings.TrimSpace(c.Get("X-Player-ID"))
		if playerID == "" {
			playerID = streamPlayerID(c)
		}
		if playerID == "" {
			playerID = AnonymousPlayer
		}

		c.Locals("player_id", playerID)
		log.Debugf("👤 [PLAYER_CTX] PlayerID=%s | Path: %s", playerID, c.Path())
		return c.Next()
	}
}
