package match3

import "github.com/vovakirdan/match3-arcade/internal/engine"

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick      uint64
	Variant   string
	Seed      int64
	Cursor    engine.Coord
	Animating bool // Moves are still on screen
	Paused    bool
	Engine    engine.Snapshot
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:      g.tick,
		Variant:   string(g.variant),
		Seed:      g.seed,
		Cursor:    g.cursor,
		Animating: g.anim.busy(),
		Paused:    g.paused,
		Engine:    g.session.Snapshot(),
	}
}

// Equal reports whether two snapshots describe the same state.
func (a Snapshot) Equal(b Snapshot) bool {
	return a.Tick == b.Tick &&
		a.Variant == b.Variant &&
		a.Seed == b.Seed &&
		a.Cursor == b.Cursor &&
		a.Animating == b.Animating &&
		a.Paused == b.Paused &&
		a.Engine.Equal(b.Engine)
}
