package engine

import "fmt"

// Coord addresses a grid slot. Row 0 is the top row; gravity pulls tiles
// toward higher row numbers.
type Coord struct {
	Row int
	Col int
}

// At is a convenience constructor for Coord.
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add returns a new Coord offset by (dr, dc).
func (c Coord) Add(dr, dc int) Coord {
	return Coord{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Adjacent reports whether two coordinates are 4-directional neighbors.
func (c Coord) Adjacent(other Coord) bool {
	return c.Manhattan(other) == 1
}

// Direction is one of the four swap directions.
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// scanDirections is the neighbor order used by the move finder.
var scanDirections = [...]Direction{DirUp, DirRight, DirDown, DirLeft}

// Delta returns the row and column offsets for the direction.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case DirUp:
		return -1, 0
	case DirRight:
		return 0, 1
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	default:
		return 0, 0
	}
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Step returns the neighbor of c in direction d.
func (c Coord) Step(d Direction) Coord {
	dr, dc := d.Delta()
	return c.Add(dr, dc)
}

// Swap is a pair of adjacent coordinates.
type Swap struct {
	A Coord
	B Coord
}

// String returns a string representation of the swap.
func (s Swap) String() string {
	return s.A.String() + "<->" + s.B.String()
}
