// handlers/score.go
package handlers

import (
	"minesweeper-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupScoreRoutes(app *fiber.App, scoreService *services.ScoreService) {
	app.Get("/scores", scoreService.ListAll)
	app.Get("/scores/:difficulty", scoreService.List)
	app.Delete("/scores/:difficulty/:id", scoreService.Remove)
	app.Delete("/scores", scoreService.ClearAll)
}
