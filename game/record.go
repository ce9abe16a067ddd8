package game

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DidNotFinish is the Record time of a game that was not completed. It sorts
// after every real duration.
const DidNotFinish time.Duration = math.MaxInt64

// Record is the outcome of one finished game.
type Record struct {
	Time time.Duration
	Date time.Time
}

func (r Record) Finished() bool { return r.Time != DidNotFinish }

// Millis returns the elapsed milliseconds, or nil for an unfinished game.
func (r Record) Millis() *int64 {
	if !r.Finished() {
		return nil
	}
	ms := r.Time.Milliseconds()
	return &ms
}

// Seconds renders the time with three decimals, or "-" when unfinished.
func (r Record) Seconds() string {
	if !r.Finished() {
		return "-"
	}
	return FormatSeconds(r.Time)
}

// FormatSeconds renders d as seconds with millisecond precision, e.g. "12.345".
func FormatSeconds(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

// RecordFromMillis is the inverse of Millis.
func RecordFromMillis(ms *int64, date time.Time) Record {
	if ms == nil {
		return Record{Time: DidNotFinish, Date: date}
	}
	return Record{Time: time.Duration(*ms) * time.Millisecond, Date: date}
}

type recordJSON struct {
	Time *int64    `json:"time"`
	Date time.Time `json:"date"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{Time: r.Millis(), Date: r.Date.UTC()})
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = RecordFromMillis(raw.Time, raw.Date)
	return nil
}
