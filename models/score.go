// models/score.go
package models

import (
	"sort"
	"time"

	"minesweeper-service/game"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ScoreRecord is one kept game result in a difficulty's score table.
type ScoreRecord struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Difficulty string `gorm:"index;not null;type:varchar(64)" json:"difficulty"`
	PlayerID   string `gorm:"index" json:"player_id,omitempty"`

	// ElapsedMS is nil for a game that was not completed
	ElapsedMS *int64    `json:"time"`
	Date      time.Time `json:"date" gorm:"not null"`

	Timestamps
}

// NewScoreRecord stamps a fresh id on a game record.
func NewScoreRecord(difficulty, playerID string, rec game.Record) ScoreRecord {
	return ScoreRecord{
		ID:         uuid.NewString(),
		Difficulty: difficulty,
		PlayerID:   playerID,
		ElapsedMS:  rec.Millis(),
		Date:       rec.Date.UTC(),
	}
}

func (s ScoreRecord) Record() game.Record {
	return game.RecordFromMillis(s.ElapsedMS, s.Date)
}

// SortScores orders records by elapsed time ascending, unfinished games last,
// ties broken by date.
func SortScores(records []ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Record(), records[j].Record()
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Date.Before(b.Date)
	})
}

// ScoreView is the score-table row shown to players.
type ScoreView struct {
	ID          string    `json:"id"`
	Time        *int64    `json:"time"`
	Seconds     string    `json:"seconds"`
	Date        time.Time `json:"date"`
	DateDisplay string    `json:"date_display"`
}

func (s ScoreRecord) View() ScoreView {
	return ScoreView{
		ID:          s.ID,
		Time:        s.ElapsedMS,
		Seconds:     s.Record().Seconds(),
		Date:        s.Date,
		DateDisplay: s.Date.Format("2006-01-02 15:04:05"),
	}
}
