package services

import (
	"testing"
	"time"

	"minesweeper-service/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishesGameEvents(t *testing.T) {
	b := NewEventBroker(testTranslator(t).Lookup("ja"))
	events, release := b.Subscribe()
	defer release()

	b.CellChanged(4, game.Revealed, 2)
	b.CellChanged(5, game.Flagged, -1)
	b.FlagsChanged(9)
	b.TimerTick(61500 * time.Millisecond)
	b.GameWon(game.Record{Time: 1234 * time.Millisecond, Date: time.Now()})
	b.GameLost()

	ev := <-events
	assert.Equal(t, "cell", ev.Name)
	require.NotNil(t, ev.Data.(CellEvent).Value)
	assert.Equal(t, 2, *ev.Data.(CellEvent).Value)

	ev = <-events
	assert.Nil(t, ev.Data.(CellEvent).Value, "flag changes never leak values")

	ev = <-events
	assert.Equal(t, FlagsEvent{Remaining: 9}, ev.Data)

	ev = <-events
	assert.Equal(t, TickEvent{ElapsedMS: 61500, Display: "1:01"}, ev.Data)

	ev = <-events
	won := ev.Data.(OutcomeEvent)
	assert.Equal(t, "won", ev.Name)
	assert.Equal(t, "クリア!", won.Message)
	assert.Equal(t, "1.234", won.Seconds)

	ev = <-events
	assert.Equal(t, "lost", ev.Name)
	assert.Equal(t, "ゲームオーバー", ev.Data.(OutcomeEvent).Message)
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	b := NewEventBroker(testTranslator(t).Default())
	events, release := b.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			b.FlagsChanged(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, events, subscriberBuffer)

	release()
	release()
	assert.Equal(t, 0, b.Subscribers())
}

func TestBrokerClose(t *testing.T) {
	b := NewEventBroker(testTranslator(t).Default())
	events, release := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())

	b.Close()
	b.Close()
	_, open := <-events
	assert.False(t, open)
	release()

	late, _ := b.Subscribe()
	_, open = <-late
	assert.False(t, open, "subscribing to a closed broker yields a closed channel")
	b.FlagsChanged(1)
}
