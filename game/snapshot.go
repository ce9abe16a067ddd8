package game

// CellView is the presentation-layer view of a cell. Value is only set for
// revealed cells.
type CellView struct {
	Index int       `json:"index"`
	State CellState `json:"state"`
	Value *int      `json:"value,omitempty"`
}

// Snapshot is a copy of the visible board.
type Snapshot struct {
	Columns        int        `json:"columns"`
	Rows           int        `json:"rows"`
	Mines          int        `json:"mines"`
	Status         Status     `json:"status"`
	RemainingFlags int        `json:"remaining_flags"`
	Hidden         int        `json:"hidden"`
	ElapsedMS      int64      `json:"elapsed_ms"`
	Display        string     `json:"display"`
	Cells          []CellView `json:"cells"`
}

func (g *Game) Snapshot() Snapshot {
	elapsed := g.timer.Elapsed()
	digits := 0
	if g.status.Over() {
		digits = 3
	}
	s := Snapshot{
		Columns:        g.grid.columns,
		Rows:           g.grid.rows,
		Mines:          g.grid.mines,
		Status:         g.status,
		RemainingFlags: g.RemainingFlags(),
		Hidden:         g.Hidden(),
		ElapsedMS:      elapsed.Milliseconds(),
		Display:        FormatElapsed(elapsed, digits),
		Cells:          make([]CellView, len(g.grid.cells)),
	}
	for i := range g.grid.cells {
		c := &g.grid.cells[i]
		v := CellView{Index: i, State: c.state}
		if c.state == Revealed {
			value := c.value
			v.Value = &value
		}
		s.Cells[i] = v
	}
	return s
}
