package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
)

// Status is the lifecycle state of a game.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("n/a:%d", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{NotStarted, InProgress, Won, Lost} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Over reports a terminal state.
func (s Status) Over() bool { return s == Won || s == Lost }

// Observer receives the notifications of a game. TimerTick is called from
// the timer goroutine; everything else from the caller of a command.
type Observer interface {
	CellChanged(index int, state CellState, value int)
	FlagsChanged(remaining int)
	TimerTick(elapsed time.Duration)
	GameWon(record Record)
	GameLost()
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) CellChanged(int, CellState, int) {}
func (NopObserver) FlagsChanged(int) {}
func (NopObserver) TimerTick(time.Duration) {}
func (NopObserver) GameWon(Record) {}
func (NopObserver) GameLost() {}

type Option func(*Game)

func WithClock(clock clockwork.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

func WithObserver(o Observer) Option {
	return func(g *Game) { g.observer = o }
}

// Game orchestrates a grid and a timer. It is not safe for concurrent use;
// callers serialize commands.
type Game struct {
	grid     *Grid
	timer    *Timer
	status   Status
	opened   int
	flagged  int
	observer Observer
	clock    clockwork.Clock
	rng      *rand.Rand
}

// New builds a game. Mines are placed on the first reveal.
func New(columns, rows, mines int, opts ...Option) (*Game, error) {
	grid, err := NewGrid(columns, rows, mines)
	if err != nil {
		return nil, err
	}
	g := &Game{grid: grid}
	for _, opt := range opts {
		opt(g)
	}
	if g.observer == nil {
		g.observer = NopObserver{}
	}
	if g.clock == nil {
		g.clock = clockwork.NewRealClock()
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.timer = NewTimer(g.clock, func(elapsed time.Duration) {
		g.observer.TimerTick(elapsed)
	})
	return g, nil
}

func (g *Game) Grid() *Grid { return g.grid }
func (g *Game) Timer() *Timer { return g.timer }
func (g *Game) Status() Status { return g.status }
func (g *Game) Clock() clockwork.Clock { return g.clock }

// RemainingFlags is mines minus flagged cells. It goes negative when the
// player over-flags.
func (g *Game) RemainingFlags() int { return g.grid.mines - g.flagged }

// Hidden counts the cells that are not revealed, flagged ones included.
func (g *Game) Hidden() int { return g.grid.Len() - g.opened }

// Record returns the score record of a won game.
func (g *Game) Record() (Record, bool) {
	if g.status != Won {
		return Record{}, false
	}
	return g.timer.Record(), true
}

// Reveal opens a hidden cell. The first reveal places the mines away from
// the cell and its neighbors and starts the timer.
func (g *Game) Reveal(i int) error {
	c, err := g.cell(i)
	if err != nil {
		return err
	}
	if g.status.Over() || c.state != Hidden {
		return nil
	}
	if g.status == NotStarted {
		g.start(c)
	}
	g.open(i)
	return nil
}

// RevealAround opens every non-flagged neighbor of a revealed cell when the
// number of flagged neighbors matches its value. It stops at the first mine.
func (g *Game) RevealAround(i int) error {
	c, err := g.cell(i)
	if err != nil {
		return err
	}
	if g.status != InProgress || c.state != Revealed {
		return nil
	}
	flags := 0
	for _, n := range c.adjacency {
		if g.grid.cells[n].state == Flagged {
			flags++
		}
	}
	if flags != c.value {
		return nil
	}
	for _, n := range c.adjacency {
		if g.status.Over() {
			break
		}
		if g.grid.cells[n].state == Flagged {
			continue
		}
		if !g.open(n) {
			break
		}
	}
	return nil
}

// ToggleFlag sets or clears the flag of a hidden cell. A nil explicit
// inverts the current flag.
func (g *Game) ToggleFlag(i int, explicit *bool) error {
	c, err := g.cell(i)
	if err != nil {
		return err
	}
	if g.status.Over() || c.state == Revealed {
		return nil
	}
	want := c.state != Flagged
	if explicit != nil {
		want = *explicit
	}
	next := Hidden
	if want {
		next = Flagged
	}
	if next != c.state {
		c.state = next
		if want {
			g.flagged++
		} else {
			g.flagged--
		}
		g.observer.CellChanged(i, c.state, -1)
	}
	g.observer.FlagsChanged(g.RemainingFlags())
	return nil
}

// Abandon stops the timer of a game that will not be finished.
func (g *Game) Abandon() {
	g.timer.Stop(false)
}

func (g *Game) cell(i int) (*Cell, error) {
	c := g.grid.Cell(i)
	if c == nil {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrCellOutOfRange, i, g.grid.Len())
	}
	return c, nil
}

func (g *Game) start(c *Cell) {
	excluded := make([]int, 0, len(c.adjacency)+1)
	excluded = append(excluded, c.index)
	excluded = append(excluded, c.adjacency...)
	if g.grid.Len()-len(excluded) < g.grid.mines {
		excluded = excluded[:1]
	}
	g.grid.PlaceMines(excluded, g.rng)
	g.status = InProgress
	g.timer.Start()
}

// open reveals a hidden cell and floods outward from zero cells. It returns
// false when the cell was a mine.
func (g *Game) open(i int) bool {
	c := &g.grid.cells[i]
	if c.state != Hidden {
		return true
	}
	if c.value == Mine {
		g.lose()
		return false
	}

	g.markRevealed(c)
	queue := []int{i}
	for len(queue) > 0 {
		cur := &g.grid.cells[queue[0]]
		queue = queue[1:]
		if cur.value != 0 {
			continue
		}
		for _, n := range cur.adjacency {
			nc := &g.grid.cells[n]
			if nc.state != Hidden {
				continue
			}
			g.markRevealed(nc)
			if nc.value == 0 {
				queue = append(queue, n)
			}
		}
	}
	return true
}

func (g *Game) markRevealed(c *Cell) {
	c.state = Revealed
	g.opened++
	g.observer.CellChanged(c.index, Revealed, c.value)
	g.checkWin()
}

func (g *Game) checkWin() {
	if g.status != InProgress || g.Hidden() != g.grid.mines {
		return
	}
	g.status = Won
	g.timer.Stop(true)
	g.observer.GameWon(g.timer.Record())
}

func (g *Game) lose() {
	if g.status != InProgress {
		return
	}
	g.status = Lost
	g.timer.Stop(false)
	for i := range g.grid.cells {
		c := &g.grid.cells[i]
		if c.value != Mine || c.state == Revealed {
			continue
		}
		c.state = Revealed
		g.opened++
		g.observer.CellChanged(i, Revealed, Mine)
	}
	g.observer.GameLost()
}
