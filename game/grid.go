package game

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidConfiguration = errors.New("invalid grid configuration")
	ErrCellOutOfRange       = errors.New("cell index out of range")
)

// MaxSide bounds both board dimensions.
const MaxSide = 100

// Grid owns the mine layout and the cells.
type Grid struct {
	columns int
	rows    int
	mines   int
	cells   []Cell
	placed  bool
}

// NewGrid validates the configuration and builds an unmined grid.
func NewGrid(columns, rows, mines int) (*Grid, error) {
	if columns <= 0 || rows <= 0 || columns > MaxSide || rows > MaxSide {
		return nil, fmt.Errorf("%w: dimensions %dx%d, sides must be 1..%d", ErrInvalidConfiguration, columns, rows, MaxSide)
	}
	total := columns * rows
	if mines < 1 || mines >= total {
		return nil, fmt.Errorf("%w: %d mines on %d cells", ErrInvalidConfiguration, mines, total)
	}

	cells := make([]Cell, total)
	for i := range cells {
		cells[i] = Cell{index: i, adjacency: Neighbors(i, columns, rows)}
	}
	return &Grid{
		columns: columns,
		rows:    rows,
		mines:   mines,
		cells:   cells,
	}, nil
}

func (g *Grid) Columns() int { return g.columns }
func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Mines() int { return g.mines }
func (g *Grid) Len() int { return len(g.cells) }

// Placed reports whether mines have been assigned.
func (g *Grid) Placed() bool { return g.placed }

// Cell returns the cell at i, or nil when i is outside the grid.
func (g *Grid) Cell(i int) *Cell {
	if i < 0 || i >= len(g.cells) {
		return nil
	}
	return &g.cells[i]
}

// MineIndices lists the mined cells in ascending order.
func (g *Grid) MineIndices() []int {
	out := make([]int, 0, g.mines)
	for i := range g.cells {
		if g.cells[i].value == Mine {
			out = append(out, i)
		}
	}
	return out
}

// PlaceMines assigns the mines uniformly at random among the cells not in
// excluded. Collisions, excluded cells and out-of-range draws are retried.
// If the exclusion leaves less room than there are mines it is ignored.
// Mines are placed at most once.
func (g *Grid) PlaceMines(excluded []int, rng *rand.Rand) {
	if g.placed {
		return
	}
	total := len(g.cells)
	skip := make([]bool, total)
	skipped := 0
	for _, i := range excluded {
		if i >= 0 && i < total && !skip[i] {
			skip[i] = true
			skipped++
		}
	}
	if total-skipped < g.mines {
		skip = make([]bool, total)
	}

	mined := make([]bool, total)
	for placed := 0; placed < g.mines; {
		i := rng.Intn(total + 1)
		if i >= total || skip[i] || mined[i] {
			continue
		}
		mined[i] = true
		placed++
	}
	g.assign(mined)
}

// PlaceMinesAt assigns mines at fixed positions. The count must match the
// grid's mine count.
func (g *Grid) PlaceMinesAt(indices []int) error {
	if g.placed {
		return nil
	}
	mined := make([]bool, len(g.cells))
	n := 0
	for _, i := range indices {
		if i < 0 || i >= len(g.cells) {
			return fmt.Errorf("%w: %d", ErrCellOutOfRange, i)
		}
		if !mined[i] {
			mined[i] = true
			n++
		}
	}
	if n != g.mines {
		return fmt.Errorf("%w: got %d mine positions, want %d", ErrInvalidConfiguration, n, g.mines)
	}
	g.assign(mined)
	return nil
}

func (g *Grid) assign(mined []bool) {
	for i := range g.cells {
		c := &g.cells[i]
		if mined[i] {
			c.value = Mine
			continue
		}
		count := 0
		for _, n := range c.adjacency {
			if mined[n] {
				count++
			}
		}
		c.value = count
	}
	g.placed = true
}
