package game

import (
	"fmt"
	"math"

	"github.com/gosimple/slug"
)

// Preset is a named board configuration.
type Preset struct {
	Name    string `json:"name"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
	Mines   int    `json:"mines"`
}

var Presets = []Preset{
	{Name: "easy", Columns: 9, Rows: 9, Mines: 10},
	{Name: "normal", Columns: 16, Rows: 16, Mines: 40},
	{Name: "hard", Columns: 30, Rows: 16, Mines: 99},
}

// LookupPreset finds a preset by name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// MaxMines is the largest mine count accepted for a custom board: 40% of
// the cells, rounded.
func MaxMines(columns, rows int) int {
	return int(math.Round(float64(columns*rows) * .4))
}

// Difficulty returns the score-table label of a board: the preset name when
// the configuration matches one, otherwise a custom slug such as
// "custom-20x10-35".
func Difficulty(columns, rows, mines int) string {
	for _, p := range Presets {
		if p.Columns == columns && p.Rows == rows && p.Mines == mines {
			return p.Name
		}
	}
	return slug.Make(fmt.Sprintf("custom %dx%d %d", columns, rows, mines))
}
