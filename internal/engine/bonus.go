package engine

// BonusResolver expands bonus activations into the set of cells to destroy.
// A cell is marked at most once, which also stops chained activations from
// re-entering a bonus that is already going off.
type BonusResolver struct {
	grid   *Grid
	rocket RocketDirection

	marked    map[Coord]bool
	order     []Coord
	activated int
}

// NewBonusResolver creates a resolver with an empty destruction set.
func NewBonusResolver(g *Grid, rocket RocketDirection) *BonusResolver {
	return &BonusResolver{
		grid:   g,
		rocket: rocket,
		marked: make(map[Coord]bool),
	}
}

// Mark adds occupied cells to the destruction set and reports how many were
// newly added. Bonus tiles marked this way are destroyed without going off.
func (r *BonusResolver) Mark(cells ...Coord) int {
	added := 0
	for _, c := range cells {
		if r.marked[c] || r.grid.Tile(c) == nil {
			continue
		}
		r.marked[c] = true
		r.order = append(r.order, c)
		added++
	}
	return added
}

// Marked reports whether c is already pending destruction.
func (r *BonusResolver) Marked(c Coord) bool {
	return r.marked[c]
}

// Activate sets off the bonus tile at c. paired is the kind of the tile it
// was swapped with (or the kind the chain started from) and selects what a
// Rainbow clears. Activating a base tile, an empty slot, or a tile that is
// already marked does nothing.
func (r *BonusResolver) Activate(c Coord, paired Kind) {
	t := r.grid.Tile(c)
	if t == nil || !t.Kind.IsBonus() || r.marked[c] {
		return
	}
	r.Mark(c)
	r.activated++

	switch t.Kind {
	case KindBomb:
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				r.hit(c.Add(dr, dc), paired)
			}
		}
	case KindRocket:
		for _, p := range r.rocketPath(c) {
			r.hit(p, paired)
		}
	case KindRainbow:
		// Rainbow blasts never chain.
		for _, tile := range r.grid.Tiles() {
			if tile.Kind == paired {
				r.Mark(tile.Pos())
			}
		}
	}
}

// hit destroys the tile at c, setting it off first if it is a bonus.
func (r *BonusResolver) hit(c Coord, paired Kind) {
	t := r.grid.Tile(c)
	if t == nil || r.marked[c] {
		return
	}
	if t.Kind.IsBonus() {
		r.Activate(c, paired)
		return
	}
	r.Mark(c)
}

func (r *BonusResolver) rocketPath(c Coord) []Coord {
	from, to := c.Row, r.grid.rows-1
	switch r.rocket {
	case RocketUp:
		from, to = 0, c.Row
	case RocketColumn:
		from = 0
	}
	path := make([]Coord, 0, to-from+1)
	for row := from; row <= to; row++ {
		path = append(path, At(row, c.Col))
	}
	return path
}

// Cells returns the destruction set in row-major order.
func (r *BonusResolver) Cells() []Coord {
	out := make([]Coord, len(r.order))
	copy(out, r.order)
	sortCoords(out)
	return out
}

// Len returns the size of the destruction set.
func (r *BonusResolver) Len() int {
	return len(r.order)
}

// Activated returns how many bonus tiles went off.
func (r *BonusResolver) Activated() int {
	return r.activated
}
