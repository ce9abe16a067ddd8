package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer counts the elapsed time of one game. It ticks once per whole second
// since Start and is immutable after Stop.
type Timer struct {
	clock  clockwork.Clock
	onTick func(elapsed time.Duration)

	mu         sync.Mutex
	started    time.Time
	stopped    time.Time
	running    bool
	completed  bool
	generation int
	pending    clockwork.Timer
}

// NewTimer creates a stopped timer. onTick may be nil; it runs with the
// timer lock held and must not call back into the Timer.
func NewTimer(clock clockwork.Clock, onTick func(elapsed time.Duration)) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Timer{clock: clock, onTick: onTick}
}

// Start records the start time and begins ticking. Calls after the first
// are ignored.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started.IsZero() {
		return
	}
	t.started = t.clock.Now()
	t.running = true
	t.generation++
	t.scheduleLocked()
}

// Stop cancels the tick and freezes the elapsed time. completed tells
// whether the game was won.
func (t *Timer) Stop(completed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stopped.IsZero() {
		return
	}
	now := t.clock.Now()
	if t.started.IsZero() {
		t.started = now
	}
	t.stopped = now
	t.running = false
	t.completed = completed
	t.generation++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed is stop-start once stopped, now-start while running, 0 before start.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

// Record builds the score record of a stopped timer. A timer stopped
// without completion yields the DidNotFinish sentinel.
func (t *Timer) Record() Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := Record{Time: DidNotFinish, Date: t.stopped}
	if t.completed && !t.stopped.IsZero() {
		r.Time = t.stopped.Sub(t.started)
	}
	return r
}

func (t *Timer) elapsedLocked() time.Duration {
	switch {
	case t.started.IsZero():
		return 0
	case t.running:
		return t.clock.Since(t.started)
	default:
		return t.stopped.Sub(t.started)
	}
}

func (t *Timer) scheduleLocked() {
	elapsed := t.clock.Since(t.started)
	wait := time.Second - elapsed%time.Second
	gen := t.generation
	t.pending = t.clock.AfterFunc(wait, func() { t.tick(gen) })
}

func (t *Timer) tick(gen int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running || gen != t.generation {
		return
	}
	elapsed := t.elapsedLocked()
	t.scheduleLocked()
	if t.onTick != nil {
		t.onTick(elapsed)
	}
}

// FormatElapsed renders d as m:ss, or m:ss.fff with digits fractional digits.
func FormatElapsed(d time.Duration, digits int) string {
	if d < 0 {
		d = 0
	}
	minutes := d / time.Minute
	rest := d % time.Minute
	seconds := rest / time.Second
	if digits <= 0 {
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	}
	if digits > 9 {
		digits = 9
	}
	unit := time.Second
	for range digits {
		unit /= 10
	}
	frac := (rest % time.Second) / unit
	return fmt.Sprintf("%d:%02d.%0*d", minutes, seconds, digits, frac)
}
