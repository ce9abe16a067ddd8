// services/session.go
package services

import (
	"sync"
	"time"

	"minesweeper-service/game"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Session is one player's game in progress.
type Session struct {
	ID         string
	PlayerID   string
	Difficulty string
	Catalog    *Catalog

	game   *game.Game
	events *EventBroker

	mu         sync.Mutex
	lastActive time.Time
	scoreKept  bool
}

// Do runs fn with exclusive access to the game.
func (s *Session) Do(now time.Time, fn func(g *game.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
	return fn(s.game)
}

// KeepScore marks the score of a won game as kept and returns its record.
func (s *Session) KeepScore(now time.Time) (game.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now

	rec, ok := s.game.Record()
	if !ok {
		return game.Record{}, ErrNotWon
	}
	if s.scoreKept {
		return game.Record{}, ErrScoreAlreadyKept
	}
	s.scoreKept = true
	return rec, nil
}

// UnkeepScore reverts KeepScore after a failed store write.
func (s *Session) UnkeepScore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoreKept = false
}

func (s *Session) Events() *EventBroker { return s.events }

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) close() {
	s.mu.Lock()
	s.game.Abandon()
	s.mu.Unlock()
	s.events.Close()
}

// SessionRegistry holds the live sessions by id.
type SessionRegistry struct {
	clock    clockwork.Clock
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRegistry(clock clockwork.Clock) *SessionRegistry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionRegistry{
		clock:    clock,
		sessions: make(map[string]*Session),
	}
}

func (r *SessionRegistry) Clock() clockwork.Clock { return r.clock }

// Create builds a game wired to a fresh event broker and registers it.
// An empty difficulty is derived from the board.
func (r *SessionRegistry) Create(playerID, difficulty string, columns, rows, mines int, catalog *Catalog, opts ...game.Option) (*Session, error) {
	events := NewEventBroker(catalog)
	opts = append([]game.Option{game.WithClock(r.clock)}, opts...)
	opts = append(opts, game.WithObserver(events))

	g, err := game.New(columns, rows, mines, opts...)
	if err != nil {
		return nil, err
	}

	if difficulty == "" {
		difficulty = game.Difficulty(columns, rows, mines)
	}

	s := &Session{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		Difficulty: difficulty,
		Catalog:    catalog,
		game:       g,
		events:     events,
		lastActive: r.clock.Now(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOwned is Get limited to one player's sessions. Another player's session
// reads as not found.
func (r *SessionRegistry) GetOwned(id, playerID string) (*Session, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if s.PlayerID != playerID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove abandons and drops a session.
func (r *SessionRegistry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	return nil
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reap drops the sessions idle for longer than ttl and returns how many.
func (r *SessionRegistry) Reap(ttl time.Duration) int {
	cutoff := r.clock.Now().Add(-ttl)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.close()
		log.Infof("🧹 [Reaper] Dropped idle session %s (%s)", s.ID, s.Difficulty)
	}
	return len(stale)
}

// CloseAll drops every session, used on shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
