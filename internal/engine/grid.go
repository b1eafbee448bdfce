package engine

import (
	"fmt"
	"math/rand"
	"strings"
)

// TileID is an opaque handle identifying a tile for its whole lifetime.
type TileID uint64

// Tile is a single piece on the board.
type Tile struct {
	ID   TileID
	Kind Kind
	Row  int
	Col  int
}

// Pos returns the logical position of the tile.
func (t *Tile) Pos() Coord {
	return Coord{Row: t.Row, Col: t.Col}
}

// Move is a logical tile relocation. From may lie above the board for tiles
// that are created by a refill and drop into place.
type Move struct {
	Tile TileID
	From Coord
	To   Coord
}

// Grid owns the board slots and the random tile generator.
type Grid struct {
	rows      int
	cols      int
	baseKinds int
	slots     [][]*Tile
	rng       *rand.Rand
	nextID    TileID
}

// NewGrid creates an empty grid. Dimensions are not validated here; Session
// validates its Config before building a grid.
func NewGrid(rows, cols, baseKinds int, rng *rand.Rand) *Grid {
	g := &Grid{
		rows:      rows,
		cols:      cols,
		baseKinds: baseKinds,
		rng:       rng,
	}
	g.slots = make([][]*Tile, rows)
	for r := range g.slots {
		g.slots[r] = make([]*Tile, cols)
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// BaseKinds returns the number of base colors in play.
func (g *Grid) BaseKinds() int {
	return g.baseKinds
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// Get returns the kind at c: KindNone outside the grid, KindEmpty for a
// vacant slot.
func (g *Grid) Get(c Coord) Kind {
	if !g.InBounds(c) {
		return KindNone
	}
	if t := g.slots[c.Row][c.Col]; t != nil {
		return t.Kind
	}
	return KindEmpty
}

// Tile returns the tile at c, or nil.
func (g *Grid) Tile(c Coord) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return g.slots[c.Row][c.Col]
}

// put stores t at c and syncs its logical position.
func (g *Grid) put(t *Tile, c Coord) {
	g.slots[c.Row][c.Col] = t
	if t != nil {
		t.Row, t.Col = c.Row, c.Col
	}
}

// SwapPositions exchanges two occupied, 4-adjacent tiles.
func (g *Grid) SwapPositions(a, b Coord) error {
	if !g.InBounds(a) || !g.InBounds(b) || !a.Adjacent(b) {
		return fmt.Errorf("%w: %v and %v are not adjacent", ErrInvalidSwap, a, b)
	}
	ta, tb := g.slots[a.Row][a.Col], g.slots[b.Row][b.Col]
	if ta == nil || tb == nil {
		return fmt.Errorf("%w: empty slot in %v<->%v", ErrInvalidSwap, a, b)
	}
	g.put(ta, b)
	g.put(tb, a)
	return nil
}

// RemoveAt empties the slot at c. Removing an already empty slot is a no-op
// and reports false.
func (g *Grid) RemoveAt(c Coord) bool {
	if !g.InBounds(c) || g.slots[c.Row][c.Col] == nil {
		return false
	}
	g.slots[c.Row][c.Col] = nil
	return true
}

// GenerateTile creates a base tile at c whose kind is not in excluding and
// places it into the slot. The kind is drawn uniformly and then incremented
// (wrapping) past excluded values.
func (g *Grid) GenerateTile(c Coord, excluding ...Kind) (*Tile, error) {
	kind, err := g.randomKind(excluding)
	if err != nil {
		return nil, err
	}
	return g.newTile(c, kind), nil
}

// newTile allocates a tile with the next ID and places it at c.
func (g *Grid) newTile(c Coord, kind Kind) *Tile {
	g.nextID++
	t := &Tile{ID: g.nextID, Kind: kind}
	g.put(t, c)
	return t
}

// spawn fills c with a fresh base tile, avoiding the kinds directly above
// and to the left.
func (g *Grid) spawn(c Coord) *Tile {
	t, err := g.GenerateTile(c, g.Get(c.Add(-1, 0)), g.Get(c.Add(0, -1)))
	if err != nil {
		// Unreachable with a validated config (at least three base kinds).
		t = g.newTile(c, Color(g.rng.Intn(g.baseKinds)))
	}
	return t
}

func (g *Grid) randomKind(excluding []Kind) (Kind, error) {
	excluded := make(map[Kind]bool, len(excluding))
	for _, k := range excluding {
		if k.IsBase() && int(k) < g.baseKinds {
			excluded[k] = true
		}
	}
	if len(excluded) >= g.baseKinds {
		return KindNone, &ConfigError{
			Field:  "base_kinds",
			Reason: fmt.Sprintf("exclusion set %v covers all %d kinds", excluding, g.baseKinds),
		}
	}

	answer := g.rng.Intn(g.baseKinds)
	for excluded[Color(answer)] {
		answer = (answer + 1) % g.baseKinds
	}
	return Color(answer), nil
}

// CollapseColumn shifts the occupied slots of a column downward, preserving
// their order, and returns the number of vacated top slots plus the moves
// that were made.
func (g *Grid) CollapseColumn(col int) (int, []Move) {
	if col < 0 || col >= g.cols {
		return 0, nil
	}

	var moves []Move
	write := g.rows - 1
	for read := g.rows - 1; read >= 0; read-- {
		t := g.slots[read][col]
		if t == nil {
			continue
		}
		if read != write {
			g.slots[read][col] = nil
			g.put(t, At(write, col))
			moves = append(moves, Move{Tile: t.ID, From: At(read, col), To: At(write, col)})
		}
		write--
	}
	return write + 1, moves
}

// Kinds returns a copy of the board as a matrix of kinds.
func (g *Grid) Kinds() [][]Kind {
	out := make([][]Kind, g.rows)
	for r := range out {
		out[r] = make([]Kind, g.cols)
		for c := range out[r] {
			out[r][c] = g.Get(At(r, c))
		}
	}
	return out
}

// Tiles returns all tiles in row-major order.
func (g *Grid) Tiles() []*Tile {
	tiles := make([]*Tile, 0, g.rows*g.cols)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if t := g.slots[r][c]; t != nil {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// checkPositions verifies that every tile knows its own slot.
func (g *Grid) checkPositions() error {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if t := g.slots[r][c]; t != nil && (t.Row != r || t.Col != c) {
				return fmt.Errorf("%w: tile %d at (%d,%d) believes it is at %v", errInvariant, t.ID, r, c, t.Pos())
			}
		}
	}
	return nil
}

// String renders the board using fixture symbols, one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.cols + 1) * g.rows)
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			sb.WriteRune('\n')
		}
		for c := 0; c < g.cols; c++ {
			sb.WriteRune(g.Get(At(r, c)).Symbol())
		}
	}
	return sb.String()
}
