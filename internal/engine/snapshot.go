package engine

// Snapshot captures the observable session state for determinism testing
// and for hosts that render from state instead of events.
type Snapshot struct {
	State     State
	Score     int
	TurnsLeft int
	Board     []string // Fixture symbols, top row first
	Selected  *Coord
	Hint      *Swap
	Stats     Stats
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Score:     s.score,
		TurnsLeft: s.turnsLeft,
		Board:     boardRows(s.grid),
		Stats:     s.stats,
	}
	if s.selected != nil {
		c := *s.selected
		snap.Selected = &c
	}
	if s.hint != nil {
		h := *s.hint
		snap.Hint = &h
	}
	return snap
}

func boardRows(g *Grid) []string {
	rows := make([]string, g.rows)
	buf := make([]rune, g.cols)
	for r := range rows {
		for c := 0; c < g.cols; c++ {
			buf[c] = g.Get(At(r, c)).Symbol()
		}
		rows[r] = string(buf)
	}
	return rows
}

// Equal reports whether two snapshots describe the same state.
func (a Snapshot) Equal(b Snapshot) bool {
	if a.State != b.State || a.Score != b.Score || a.TurnsLeft != b.TurnsLeft || a.Stats != b.Stats {
		return false
	}
	if len(a.Board) != len(b.Board) {
		return false
	}
	for i := range a.Board {
		if a.Board[i] != b.Board[i] {
			return false
		}
	}
	if (a.Selected == nil) != (b.Selected == nil) || (a.Selected != nil && *a.Selected != *b.Selected) {
		return false
	}
	if (a.Hint == nil) != (b.Hint == nil) || (a.Hint != nil && *a.Hint != *b.Hint) {
		return false
	}
	return true
}
