package models

import (
	"testing"
	"time"

	"minesweeper-service/game"

	"github.com/stretchr/testify/assert"
)

func ms(v int64) *int64 { return &v }

func TestSortScores(t *testing.T) {
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []ScoreRecord{
		{ID: "a", ElapsedMS: ms(3000), Date: day},
		{ID: "dnf", ElapsedMS: nil, Date: day},
		{ID: "b", ElapsedMS: ms(1000), Date: day},
		{ID: "c", ElapsedMS: ms(2000), Date: day.Add(time.Hour)},
		{ID: "d", ElapsedMS: ms(2000), Date: day},
	}

	SortScores(records)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "d", "c", "a", "dnf"}, ids)
}

func TestNewScoreRecord(t *testing.T) {
	date := time.Date(2024, 3, 1, 18, 4, 5, 0, time.FixedZone("JST", 9*3600))
	rec := NewScoreRecord("easy", "p1", game.Record{Time: 12345 * time.Millisecond, Date: date})

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "easy", rec.Difficulty)
	assert.Equal(t, int64(12345), *rec.ElapsedMS)
	assert.Equal(t, time.UTC, rec.Date.Location())
	assert.True(t, rec.Record().Finished())

	view := rec.View()
	assert.Equal(t, "12.345", view.Seconds)
	assert.Equal(t, "2024-03-01 09:04:05", view.DateDisplay)
}

func TestViewOfUnfinishedRecord(t *testing.T) {
	rec := NewScoreRecord("hard", "", game.Record{Time: game.DidNotFinish, Date: time.Now()})
	assert.Nil(t, rec.ElapsedMS)
	assert.Equal(t, "-", rec.View().Seconds)
}
