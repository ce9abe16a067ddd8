// handlers/game.go
package handlers

import (
	"minesweeper-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	app.Get("/difficulties", gameService.ListDifficulties)
	app.Get("/i18n", gameService.GetCatalog)

	app.Post("/games", gameService.CreateGame)
	app.Get("/games/:id", gameService.GetGame)
	app.Delete("/games/:id", gameService.AbandonGame)

	app.Post("/games/:id/reveal", gameService.Reveal)
	app.Post("/games/:id/reveal-around", gameService.RevealAround)
	app.Post("/games/:id/flag", gameService.ToggleFlag)
	app.Post("/games/:id/score", gameService.KeepScore)

	// 📡 Server-sent events
	app.Get("/games/:id/events", gameService.StreamEvents)
}
