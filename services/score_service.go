package services

import (
	"errors"
	"sort"
	"strings"

	"minesweeper-service/game"
	"minesweeper-service/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
)

type ScoreService struct {
	Store ScoreStore
}

func NewScoreService(store ScoreStore) *ScoreService {
	return &ScoreService{Store: store}
}

// ScoreTable is one difficulty's rows, fastest first.
type ScoreTable struct {
	Difficulty string             `json:"difficulty"`
	Scores     []models.ScoreView `json:"scores"`
}

// ValidDifficulty accepts preset names and custom-board slugs.
func ValidDifficulty(name string) bool {
	if _, ok := game.LookupPreset(name); ok {
		return true
	}
	return strings.HasPrefix(name, "custom-") && slug.IsSlug(name)
}

// ListAll returns every score table: the presets first, then custom boards
// by name.
func (s *ScoreService) ListAll(c *fiber.Ctx) error {
	snap, err := s.Store.Snapshot(c.Context())
	if err != nil {
		log.Errorf("❌ [SCORE] Failed to read scores: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read scores"})
	}

	var custom []string
	for name := range snap {
		if _, ok := game.LookupPreset(name); !ok {
			custom = append(custom, name)
		}
	}
	sort.Strings(custom)

	tables := make([]ScoreTable, 0, len(snap))
	for _, p := range game.Presets {
		tables = append(tables, tableOf(p.Name, snap[p.Name]))
	}
	for _, name := range custom {
		tables = append(tables, tableOf(name, snap[name]))
	}
	return c.JSON(tables)
}

func tableOf(difficulty string, entries []ScoreEntry) ScoreTable {
	records := make([]models.ScoreRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.record(difficulty))
	}
	models.SortScores(records)
	return ScoreTable{Difficulty: difficulty, Scores: views(records)}
}

func (s *ScoreService) List(c *fiber.Ctx) error {
	difficulty := c.Params("difficulty")
	if !ValidDifficulty(difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidDifficulty.Error()})
	}

	records, err := s.Store.List(c.Context(), difficulty)
	if err != nil {
		log.Errorf("❌ [SCORE] Failed to list %s scores: %v", difficulty, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read scores"})
	}
	return c.JSON(ScoreTable{Difficulty: difficulty, Scores: views(records)})
}

func (s *ScoreService) Remove(c *fiber.Ctx) error {
	difficulty := c.Params("difficulty")
	if !ValidDifficulty(difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidDifficulty.Error()})
	}

	err := s.Store.Remove(c.Context(), difficulty, c.Params("id"))
	if errors.Is(err, ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		log.Errorf("❌ [SCORE] Failed to remove score %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to remove score"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearAll resets every score table.
func (s *ScoreService) ClearAll(c *fiber.Ctx) error {
	if err := s.Store.ClearAll(c.Context()); err != nil {
		log.Errorf("❌ [SCORE] Failed to clear scores: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear scores"})
	}
	log.Warnf("🗑️  [SCORE] All scores cleared by player %s", PlayerID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func views(records []models.ScoreRecord) []models.ScoreView {
	out := make([]models.ScoreView, len(records))
	for i, r := range records {
		out[i] = r.View()
	}
	return out
}
