package middleware

import (
	"minesweeper-service/services"

	"github.com/gofiber/fiber/v2"
)

// LocaleMiddleware resolves the message catalog from Accept-Language.
func LocaleMiddleware(translator *services.Translator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		catalog := translator.Lookup(c.Get(fiber.HeaderAcceptLanguage))
		c.Locals("catalog", catalog)
		c.Set(fiber.HeaderContentLanguage, catalog.Tag.String())
		return c.Next()
	}
}
