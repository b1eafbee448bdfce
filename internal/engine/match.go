package engine

import "sort"

// Axis is the orientation of a run.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// String returns the axis name.
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// minRun is the shortest destructible run.
const minRun = 3

// Run is a maximal line of at least three same-kind base tiles.
type Run struct {
	Axis  Axis
	Kind  Kind
	Cells []Coord // Ordered left to right or top to bottom
}

// Len returns the number of tiles in the run.
func (r Run) Len() int {
	return len(r.Cells)
}

// Contains reports whether c is a member of the run.
func (r Run) Contains(c Coord) bool {
	for _, m := range r.Cells {
		if m == c {
			return true
		}
	}
	return false
}

// start is the first cell, used to deduplicate runs.
func (r Run) start() Coord {
	return r.Cells[0]
}

// MatchDetector finds runs on a grid.
type MatchDetector struct {
	grid *Grid
}

// NewMatchDetector creates a detector bound to the grid.
func NewMatchDetector(g *Grid) *MatchDetector {
	return &MatchDetector{grid: g}
}

// ScanFull scans every row left to right and then every column top to
// bottom. Runs sharing a tile are reported separately.
func (d *MatchDetector) ScanFull() []Run {
	var runs []Run
	for r := 0; r < d.grid.rows; r++ {
		runs = append(runs, d.scanLine(At(r, 0), 0, 1, Horizontal)...)
	}
	for c := 0; c < d.grid.cols; c++ {
		runs = append(runs, d.scanLine(At(0, c), 1, 0, Vertical)...)
	}
	return runs
}

// scanLine walks one row or column from start and collects its runs.
func (d *MatchDetector) scanLine(start Coord, dr, dc int, axis Axis) []Run {
	var runs []Run
	var line []Coord
	current := KindNone

	flush := func() {
		if len(line) >= minRun && current.IsBase() {
			runs = append(runs, Run{Axis: axis, Kind: current, Cells: line})
		}
		line = nil
	}

	for c := start; d.grid.InBounds(c); c = c.Add(dr, dc) {
		k := d.grid.Get(c)
		if k != current || !k.IsBase() {
			flush()
			current = k
		}
		line = append(line, c)
	}
	flush()
	return runs
}

// ScanAround returns the runs passing through any of the given cells, in
// the order the cells are given (horizontal before vertical per cell).
func (d *MatchDetector) ScanAround(cells ...Coord) []Run {
	type key struct {
		axis  Axis
		start Coord
	}
	seen := make(map[key]bool)

	var runs []Run
	for _, c := range cells {
		for _, axis := range [...]Axis{Horizontal, Vertical} {
			run, ok := d.runThrough(c, axis)
			if !ok {
				continue
			}
			k := key{axis: axis, start: run.start()}
			if seen[k] {
				continue
			}
			seen[k] = true
			runs = append(runs, run)
		}
	}
	return runs
}

// runThrough extends from c in both directions along axis.
func (d *MatchDetector) runThrough(c Coord, axis Axis) (Run, bool) {
	kind := d.grid.Get(c)
	if !kind.IsBase() {
		return Run{}, false
	}

	dr, dc := 0, 1
	if axis == Vertical {
		dr, dc = 1, 0
	}

	first := c
	for d.grid.Get(first.Add(-dr, -dc)) == kind {
		first = first.Add(-dr, -dc)
	}

	var cells []Coord
	for p := first; d.grid.Get(p) == kind; p = p.Add(dr, dc) {
		cells = append(cells, p)
	}
	if len(cells) < minRun {
		return Run{}, false
	}
	return Run{Axis: axis, Kind: kind, Cells: cells}, true
}

// Plan is the outcome of classifying a set of runs: the cells to destroy and
// the cells that turn into bonus tiles instead.
type Plan struct {
	Destroy []Coord        // Row-major order
	Bonuses map[Coord]Kind // Cells converted in place
}

// Classify turns runs into a destruction plan. Pivots are the cells where a
// 4+ run places its bonus, tried in order; a run with no pivot uses its
// first cell. Any cell shared by a horizontal and a vertical run becomes a
// Rainbow and suppresses Bomb/Rocket creation for both runs. When
// withBonuses is false every member is destroyed.
func Classify(runs []Run, pivots []Coord, withBonuses bool) Plan {
	plan := Plan{Bonuses: make(map[Coord]Kind)}

	members := make(map[Coord]bool)
	for _, run := range runs {
		for _, c := range run.Cells {
			members[c] = true
		}
	}

	if withBonuses {
		crossed := make([]bool, len(runs))
		for i, h := range runs {
			if h.Axis != Horizontal {
				continue
			}
			for j, v := range runs {
				if v.Axis != Vertical {
					continue
				}
				if x, ok := intersection(h, v); ok {
					plan.Bonuses[x] = KindRainbow
					crossed[i], crossed[j] = true, true
				}
			}
		}

		for i, run := range runs {
			if crossed[i] || run.Len() < minRun+1 {
				continue
			}
			at := pivotOf(run, pivots)
			if _, taken := plan.Bonuses[at]; taken {
				continue
			}
			if run.Axis == Horizontal {
				plan.Bonuses[at] = KindBomb
			} else {
				plan.Bonuses[at] = KindRocket
			}
		}
	}

	for c := range members {
		if _, converted := plan.Bonuses[c]; !converted {
			plan.Destroy = append(plan.Destroy, c)
		}
	}
	sortCoords(plan.Destroy)
	return plan
}

// intersection returns the cell shared by a horizontal and a vertical run.
func intersection(h, v Run) (Coord, bool) {
	x := At(h.Cells[0].Row, v.Cells[0].Col)
	if h.Contains(x) && v.Contains(x) {
		return x, true
	}
	return Coord{}, false
}

func pivotOf(run Run, pivots []Coord) Coord {
	for _, p := range pivots {
		if run.Contains(p) {
			return p
		}
	}
	return run.Cells[0]
}

// sortCoords orders coordinates row-major.
func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Row != cs[j].Row {
			return cs[i].Row < cs[j].Row
		}
		return cs[i].Col < cs[j].Col
	})
}
