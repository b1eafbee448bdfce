package engine

// MoveFinder searches for swaps that would produce a run.
type MoveFinder struct {
	grid *Grid
}

// NewMoveFinder creates a finder bound to the grid.
func NewMoveFinder(g *Grid) *MoveFinder {
	return &MoveFinder{grid: g}
}

// AnyLegalMove returns the first legal swap, scanning cells in row-major
// order and neighbors up, right, down, left.
func (m *MoveFinder) AnyLegalMove() (Swap, bool) {
	for r := 0; r < m.grid.rows; r++ {
		for c := 0; c < m.grid.cols; c++ {
			from := At(r, c)
			for _, d := range scanDirections {
				to := from.Step(d)
				if m.IsLegal(from, to) {
					return Swap{A: from, B: to}, true
				}
			}
		}
	}
	return Swap{}, false
}

// LegalMoves returns every legal swap once, in the order AnyLegalMove would
// find them.
func (m *MoveFinder) LegalMoves() []Swap {
	seen := make(map[Swap]bool)
	var out []Swap
	for r := 0; r < m.grid.rows; r++ {
		for c := 0; c < m.grid.cols; c++ {
			from := At(r, c)
			for _, d := range scanDirections {
				to := from.Step(d)
				if seen[Swap{A: to, B: from}] || !m.IsLegal(from, to) {
					continue
				}
				s := Swap{A: from, B: to}
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// IsLegal reports whether swapping a and b would leave a run through either
// cell. Bonus tiles never count toward a run.
func (m *MoveFinder) IsLegal(a, b Coord) bool {
	if !a.Adjacent(b) || m.grid.Tile(a) == nil || m.grid.Tile(b) == nil {
		return false
	}
	kindAt := func(c Coord) Kind {
		switch c {
		case a:
			return m.grid.Get(b)
		case b:
			return m.grid.Get(a)
		}
		return m.grid.Get(c)
	}
	return formsRun(kindAt, b) || formsRun(kindAt, a)
}

// formsRun checks the three placements of a 3-run through c on each axis:
// c centered, c at the near end, c at the far end.
func formsRun(kindAt func(Coord) Kind, c Coord) bool {
	k := kindAt(c)
	if !k.IsBase() {
		return false
	}
	same := func(dr, dc int) bool {
		return kindAt(c.Add(dr, dc)) == k
	}
	for _, axis := range [...][2]int{{0, 1}, {1, 0}} {
		dr, dc := axis[0], axis[1]
		switch {
		case same(-dr, -dc) && same(dr, dc):
			return true
		case same(-dr, -dc) && same(-2*dr, -2*dc):
			return true
		case same(dr, dc) && same(2*dr, 2*dc):
			return true
		}
	}
	return false
}
