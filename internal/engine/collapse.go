package engine

import "fmt"

// Collapser applies gravity and refills vacated slots.
type Collapser struct {
	grid *Grid
}

// NewCollapser creates a collapser bound to the grid.
func NewCollapser(g *Grid) *Collapser {
	return &Collapser{grid: g}
}

// Settlement lists what one settle pass did.
type Settlement struct {
	Moves   []Move  // Falls of surviving tiles, then drops of new tiles
	Created []*Tile // New tiles, in column order
	Touched []Coord // Final cells of every tile that moved or was created
}

// Settle collapses every column and fills the vacated top slots. When a
// column has an entry in pending, the lowest new tile of that column is
// created with that bonus kind instead of a random base kind. New tiles
// start above the board and drop in.
func (c *Collapser) Settle(pending map[int]Kind) Settlement {
	var s Settlement
	g := c.grid

	for col := 0; col < g.cols; col++ {
		vacated, moves := g.CollapseColumn(col)
		s.Moves = append(s.Moves, moves...)
		for _, m := range moves {
			s.Touched = append(s.Touched, m.To)
		}

		for row := 0; row < vacated; row++ {
			at := At(row, col)
			var t *Tile
			if kind, ok := pending[col]; ok && row == vacated-1 {
				t = g.newTile(at, kind)
			} else {
				t = g.spawn(at)
			}
			s.Created = append(s.Created, t)
			s.Moves = append(s.Moves, Move{Tile: t.ID, From: At(row-vacated, col), To: at})
			s.Touched = append(s.Touched, at)
		}
	}

	sortCoords(s.Touched)
	return s
}

// checkSettled verifies that no slot is empty after a settle.
func (c *Collapser) checkSettled() error {
	g := c.grid
	for col := 0; col < g.cols; col++ {
		for row := 0; row < g.rows; row++ {
			if g.slots[row][col] == nil {
				return fmt.Errorf("%w: empty slot %v after settle", errInvariant, At(row, col))
			}
		}
	}
	return g.checkPositions()
}
