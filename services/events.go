// services/events.go
package services

import (
	"sync"
	"time"

	"minesweeper-service/game"

	log "github.com/sirupsen/logrus"
)

const subscriberBuffer = 64

// Event is one server-sent notification of a game session.
type Event struct {
	Name string
	Data any
}

type CellEvent struct {
	Index int            `json:"index"`
	State game.CellState `json:"state"`
	Value *int           `json:"value,omitempty"`
}

type FlagsEvent struct {
	Remaining int `json:"remaining"`
}

type TickEvent struct {
	ElapsedMS int64  `json:"elapsed_ms"`
	Display   string `json:"display"`
}

type OutcomeEvent struct {
	Message string `json:"message"`
	Time    *int64 `json:"time,omitempty"`
	Seconds string `json:"seconds,omitempty"`
}

// EventBroker fans game notifications out to stream subscribers. It
// implements game.Observer. Slow subscribers lose events instead of
// blocking the game.
type EventBroker struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	catalog     *Catalog
	closed      bool
}

func NewEventBroker(catalog *Catalog) *EventBroker {
	return &EventBroker{
		subscribers: make(map[chan Event]struct{}),
		catalog:     catalog,
	}
}

// Subscribe returns a channel of events and a func that releases it. The
// channel is closed when the broker closes.
func (b *EventBroker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subscribers[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers counts the open subscriptions.
func (b *EventBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

func (b *EventBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}

func (b *EventBroker) publish(name string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- Event{Name: name, Data: data}:
		default:
			log.Debugf("[SSE] Dropping %s event for a slow subscriber", name)
		}
	}
}

func (b *EventBroker) CellChanged(index int, state game.CellState, value int) {
	ev := CellEvent{Index: index, State: state}
	if state == game.Revealed {
		ev.Value = &value
	}
	b.publish("cell", ev)
}

func (b *EventBroker) FlagsChanged(remaining int) {
	b.publish("flags", FlagsEvent{Remaining: remaining})
}

func (b *EventBroker) TimerTick(elapsed time.Duration) {
	b.publish("tick", TickEvent{
		ElapsedMS: elapsed.Milliseconds(),
		Display:   game.FormatElapsed(elapsed, 0),
	})
}

func (b *EventBroker) GameWon(record game.Record) {
	b.publish("won", OutcomeEvent{
		Message: b.catalog.T("popup.win"),
		Time:    record.Millis(),
		Seconds: record.Seconds(),
	})
}

func (b *EventBroker) GameLost() {
	b.publish("lost", OutcomeEvent{Message: b.catalog.T("popup.lose")})
}
