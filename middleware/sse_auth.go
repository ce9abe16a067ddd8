// middleware/sse_auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// EventSource clients cannot set headers, so event streams may carry the
// gateway token and player id as query params.

func isEventStream(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodGet && strings.HasSuffix(c.Path(), "/events")
}

func streamToken(c *fiber.Ctx) string {
	if !isEventStream(c) {
		return ""
	}
	return strings.TrimSpace(c.Query("token"))
}

func streamPlayerID(c *fiber.Ctx) string {
	if !isEventStream(c) {
		return ""
	}
	return strings.TrimSpace(c.Query("player_id"))
}
