package engine

import "fmt"

// seedCells are where a shuffle parks three same-kind tiles so that swapping
// (1,2) up into (0,2) completes a row.
var seedCells = [3]Coord{At(0, 0), At(0, 1), At(1, 2)}

// Reshuffle is the result of a shuffle.
type Reshuffle struct {
	Kind      Kind    // Kind placed on the seed cells
	Moves     []Move  // Every tile whose slot changed
	Recolored []*Tile // Tiles repainted to make up the seed trio
}

// Shuffle permutes the tiles of a full board so that at least one legal move
// exists. Three tiles of one base kind go to the seed cells and the rest are
// placed uniformly at random into the remaining slots. If no kind has three
// tiles, the most common kind is painted onto other tiles until it does.
func (g *Grid) Shuffle() (Reshuffle, error) {
	total := g.rows * g.cols
	if len(g.Tiles()) != total {
		return Reshuffle{}, fmt.Errorf("%w: shuffle needs a full board", errInvariant)
	}

	kind, seeds, recolored := g.pickSeeds()
	res := Reshuffle{Kind: kind, Recolored: recolored}

	from := make(map[TileID]Coord, total)
	seedIDs := make(map[TileID]bool, len(seeds))
	for _, t := range g.Tiles() {
		from[t.ID] = t.Pos()
	}
	for _, t := range seeds {
		seedIDs[t.ID] = true
	}

	var rest []*Tile
	for _, t := range g.Tiles() {
		if !seedIDs[t.ID] {
			rest = append(rest, t)
		}
	}

	var free []Coord
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			at := At(r, c)
			if at != seedCells[0] && at != seedCells[1] && at != seedCells[2] {
				free = append(free, at)
			}
		}
	}
	g.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	for i, t := range seeds {
		g.put(t, seedCells[i])
	}
	for i, t := range rest {
		g.put(t, free[i])
	}

	for _, t := range g.Tiles() {
		if was := from[t.ID]; was != t.Pos() {
			res.Moves = append(res.Moves, Move{Tile: t.ID, From: was, To: t.Pos()})
		}
	}
	return res, nil
}

// pickSeeds returns the first base kind with at least three tiles together
// with three of them. Without such a kind, the most common base kind wins
// and other tiles are repainted to it, sparing bonus tiles where possible.
func (g *Grid) pickSeeds() (Kind, []*Tile, []*Tile) {
	byKind := make(map[Kind][]*Tile)
	for _, t := range g.Tiles() {
		byKind[t.Kind] = append(byKind[t.Kind], t)
	}

	best := Color(0)
	for i := 0; i < g.baseKinds; i++ {
		k := Color(i)
		if len(byKind[k]) >= len(seedCells) {
			return k, byKind[k][:len(seedCells)], nil
		}
		if len(byKind[k]) > len(byKind[best]) {
			best = k
		}
	}

	// Plain tiles are repainted first; bonuses only when nothing else is left.
	seeds := append([]*Tile(nil), byKind[best]...)
	var recolored []*Tile
	for _, bonuses := range []bool{false, true} {
		for _, t := range g.Tiles() {
			if len(seeds) == len(seedCells) {
				return best, seeds, recolored
			}
			if t.Kind == best || t.Kind.IsBonus() != bonuses {
				continue
			}
			t.Kind = best
			seeds = append(seeds, t)
			recolored = append(recolored, t)
		}
	}
	return best, seeds, recolored
}
