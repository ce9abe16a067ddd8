package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"minesweeper-service/game"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const keepAliveInterval = 15 * time.Second

type GameService struct {
	Sessions   *SessionRegistry
	Scores     ScoreStore
	Translator *Translator

	// Options are appended to every new game, e.g. a seeded rand in tests.
	Options []game.Option
}

func NewGameService(sessions *SessionRegistry, scores ScoreStore, translator *Translator) *GameService {
	return &GameService{Sessions: sessions, Scores: scores, Translator: translator}
}

type NewGameInput struct {
	Preset   string `json:"preset"`
	Columns  int    `json:"columns"`
	Rows     int    `json:"rows"`
	Mines    int    `json:"mines"`
	Portrait bool   `json:"portrait"`
}

type CellInput struct {
	Index   *int  `json:"index"`
	Flagged *bool `json:"flagged,omitempty"`
}

// GameResponse is a session id plus the visible board.
type GameResponse struct {
	ID         string `json:"id"`
	Difficulty string `json:"difficulty"`
	game.Snapshot
}

// CreateGame starts a new session from a preset or a custom size.
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var input NewGameInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	columns, rows, mines := input.Columns, input.Rows, input.Mines
	if input.Preset != "" {
		p, ok := game.LookupPreset(input.Preset)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown preset %q", input.Preset)})
		}
		columns, rows, mines = p.Columns, p.Rows, p.Mines
	} else if columns > game.MaxSide || rows > game.MaxSide {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("board sides are limited to %d cells", game.MaxSide)})
	} else if limit := game.MaxMines(columns, rows); mines > limit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("at most %d mines allowed on a %dx%d board", limit, columns, rows)})
	}

	// Rotating the board keeps its score table.
	difficulty := game.Difficulty(columns, rows, mines)
	if input.Portrait {
		columns, rows = rows, columns
	}

	session, err := s.Sessions.Create(PlayerID(c), difficulty, columns, rows, mines, s.catalog(c), s.Options...)
	if err != nil {
		if errors.Is(err, game.ErrInvalidConfiguration) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create game"})
	}

	log.Infof("🎮 [GAME] Session %s created for player %s (%s)", session.ID, session.PlayerID, session.Difficulty)
	resp, _ := s.respond(session, nil)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *GameService) GetGame(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	resp, _ := s.respond(session, nil)
	return c.JSON(resp)
}

func (s *GameService) Reveal(c *fiber.Ctx) error {
	return s.command(c, func(g *game.Game, in CellInput) error {
		return g.Reveal(*in.Index)
	})
}

func (s *GameService) RevealAround(c *fiber.Ctx) error {
	return s.command(c, func(g *game.Game, in CellInput) error {
		return g.RevealAround(*in.Index)
	})
}

func (s *GameService) ToggleFlag(c *fiber.Ctx) error {
	return s.command(c, func(g *game.Game, in CellInput) error {
		return g.ToggleFlag(*in.Index, in.Flagged)
	})
}

// KeepScore files the record of a won game in the score store. It succeeds
// once per game.
func (s *GameService) KeepScore(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	rec, err := session.KeepScore(s.Sessions.Clock().Now())
	switch {
	case errors.Is(err, ErrNotWon), errors.Is(err, ErrScoreAlreadyKept):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := s.Scores.Append(c.Context(), session.Difficulty, session.PlayerID, rec)
	if err != nil {
		session.UnkeepScore()
		log.Errorf("❌ [SCORE] Failed to keep score for session %s: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save score"})
	}

	log.Infof("🏆 [SCORE] Kept %ss on %s for player %s", rec.Seconds(), session.Difficulty, session.PlayerID)
	return c.Status(fiber.StatusCreated).JSON(record.View())
}

// AbandonGame stops and drops a session.
func (s *GameService) AbandonGame(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	if err := s.Sessions.Remove(session.ID); err != nil {
		return sessionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StreamEvents streams cell, flags, tick, won and lost events of a session.
func (s *GameService) StreamEvents(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	events, release := session.Events().Subscribe()
	done := c.Context().Done()
	id := session.ID

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer release()
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					// Session dropped
					return
				}
				payload, err := json.Marshal(ev.Data)
				if err != nil {
					log.Errorf("[SSE] Failed to encode %s event for session %s: %v", ev.Name, id, err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload)
				if err := w.Flush(); err != nil {
					log.Debugf("[SSE] Client left session %s", id)
					return
				}

			case <-ticker.C:
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}

			case <-done:
				return
			}
		}
	})

	return nil
}

// ListDifficulties returns the presets and the custom mine cap rule.
func (s *GameService) ListDifficulties(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"presets":        game.Presets,
		"max_mine_ratio": 0.4,
		"custom_prefix":  "custom-",
	})
}

// GetCatalog returns the message catalog matching Accept-Language.
func (s *GameService) GetCatalog(c *fiber.Ctx) error {
	catalog := s.catalog(c)
	return c.JSON(fiber.Map{
		"locale":   catalog.Tag.String(),
		"messages": catalog.Messages(),
	})
}

func (s *GameService) command(c *fiber.Ctx, fn func(g *game.Game, in CellInput) error) error {
	session, err := s.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	var input CellInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.Index == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "index is required"})
	}

	resp, err := s.respond(session, func(g *game.Game) error { return fn(g, input) })
	if err != nil {
		if errors.Is(err, game.ErrCellOutOfRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}

// respond runs an optional command and snapshots the board under the same
// lock.
func (s *GameService) respond(session *Session, fn func(g *game.Game) error) (GameResponse, error) {
	resp := GameResponse{ID: session.ID, Difficulty: session.Difficulty}
	err := session.Do(s.Sessions.Clock().Now(), func(g *game.Game) error {
		if fn != nil {
			if err := fn(g); err != nil {
				return err
			}
		}
		resp.Snapshot = g.Snapshot()
		return nil
	})
	return resp, err
}

// session resolves the :id param to a session of the calling player.
func (s *GameService) session(c *fiber.Ctx) (*Session, error) {
	return s.Sessions.GetOwned(c.Params("id"), PlayerID(c))
}

func (s *GameService) catalog(c *fiber.Ctx) *Catalog {
	if catalog, ok := c.Locals("catalog").(*Catalog); ok {
		return catalog
	}
	return s.Translator.Lookup(c.Get(fiber.HeaderAcceptLanguage))
}

// PlayerID is the player set by the player context middleware.
func PlayerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("player_id").(string); ok && id != "" {
		return id
	}
	return "anonymous"
}

func sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
