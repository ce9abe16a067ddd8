package game

import "fmt"

// Mine is the value of a cell holding a mine. Safe cells hold 0..8.
const Mine = 9

// CellState is the player-visible state of a cell.
type CellState int

const (
	Hidden CellState = iota
	Flagged
	Revealed
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("n/a:%d", int(s))
	}
}

func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CellState) UnmarshalText(b []byte) error {
	for _, v := range []CellState{Hidden, Flagged, Revealed} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown cell state %q", b)
}

// Cell is a single grid position.
type Cell struct {
	index     int
	adjacency []int
	state     CellState
	value     int
}

func (c *Cell) Index() int { return c.index }

// Adjacency returns the neighbor indices. The slice is shared; do not modify it.
func (c *Cell) Adjacency() []int { return c.adjacency }

func (c *Cell) State() CellState { return c.state }

// Value is the adjacent mine count, or Mine. Meaningless before mines are placed.
func (c *Cell) Value() int { return c.value }

func (c *Cell) IsMine() bool { return c.value == Mine }

// Neighbors returns the indices adjacent to i in a columns x rows row-major
// grid. Corners have 3 neighbors, edges 5, interior cells 8.
func Neighbors(i, columns, rows int) []int {
	c := columns
	var offsets []int
	switch {
	case columns == 1:
		offsets = []int{-c, +c}
	case i%c == 0:
		offsets = []int{-c, -c + 1, +1, +c, +c + 1}
	case i%c == c-1:
		offsets = []int{-c - 1, -c, -1, +c - 1, +c}
	default:
		offsets = []int{-c - 1, -c, -c + 1, -1, +1, +c - 1, +c, +c + 1}
	}

	total := columns * rows
	neighbors := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if n := i + o; n >= 0 && n < total {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}
