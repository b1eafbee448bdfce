package match3

import (
	"fmt"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/engine"
)

// Effect durations in ticks.
const (
	burstTicks  = 6
	popupTicks  = 45
	bannerTicks = 60
)

// sprite is the on-screen state of one tile.
type sprite struct {
	kind     engine.Kind
	from     engine.Coord
	to       engine.Coord
	elapsed  int
	duration int
}

// moving reports whether the sprite has not reached its target yet.
func (s *sprite) moving() bool {
	return s.elapsed < s.duration
}

// position returns the interpolated board position in rows and columns.
func (s *sprite) position() (row, col float64) {
	if !s.moving() {
		return float64(s.to.Row), float64(s.to.Col)
	}
	t := easeOutQuad(float64(s.elapsed) / float64(s.duration))
	row = float64(s.from.Row) + float64(s.to.Row-s.from.Row)*t
	col = float64(s.from.Col) + float64(s.to.Col-s.from.Col)*t
	return row, col
}

// burst marks a cell whose tile was just destroyed.
type burst struct {
	at    engine.Coord
	kind  engine.Kind
	ticks int
}

// animator is the engine's presentation collaborator: it turns motion
// intents into timed sprite moves and acknowledges each one once it lands.
type animator struct {
	swapTicks int // Ticks for a swap or shuffle move
	fallTicks int // Ticks per row of falling distance

	grid    *engine.Grid
	state   engine.State
	sprites map[engine.TileID]*sprite
	pending []engine.TileID // Moves awaiting acknowledgement, oldest first
	bursts  []burst
	lit     map[engine.Coord]bool

	popup       int // Points of the latest pass
	popupTicks  int
	banner      string
	bannerTicks int
}

func newAnimator(cfg config.Match3Animation) *animator {
	return &animator{
		swapTicks: cfg.SwapTicks,
		fallTicks: cfg.FallTicks,
		sprites:   make(map[engine.TileID]*sprite),
		lit:       make(map[engine.Coord]bool),
	}
}

// attach binds the animator to the session grid and places every tile.
func (a *animator) attach(g *engine.Grid) {
	a.grid = g
	a.sync()
}

// sync rebuilds the sprites from the logical board. It only runs when no
// move is in flight.
func (a *animator) sync() {
	if a.grid == nil {
		return
	}
	clear(a.sprites)
	for _, t := range a.grid.Tiles() {
		a.sprites[t.ID] = &sprite{kind: t.Kind, from: t.Pos(), to: t.Pos()}
	}
}

// OnEvent implements engine.Listener.
func (a *animator) OnEvent(e engine.Event) {
	switch ev := e.(type) {
	case engine.TileCreated:
		if sp, ok := a.sprites[ev.Tile]; ok {
			sp.kind = ev.Kind
			return
		}
		a.sprites[ev.Tile] = &sprite{kind: ev.Kind, from: ev.At, to: ev.At}

	case engine.TileDestroyed:
		delete(a.sprites, ev.Tile)
		a.bursts = append(a.bursts, burst{at: ev.At, kind: ev.Kind, ticks: burstTicks})

	case engine.TileMoved:
		sp, ok := a.sprites[ev.Tile]
		if !ok {
			sp = &sprite{kind: engine.KindNone}
			a.sprites[ev.Tile] = sp
		}
		sp.from, sp.to = ev.From, ev.To
		sp.elapsed = 0
		sp.duration = a.durationFor(ev)
		a.pending = append(a.pending, ev.Tile)

	case engine.StateChanged:
		a.state = ev.To
		if ev.To == engine.StateIdle || ev.To.Terminal() {
			a.sync()
		}

	case engine.ScoreChanged:
		a.popup = ev.Delta
		a.popupTicks = popupTicks

	case engine.BoardReshuffled:
		a.banner = "No moves left, reshuffling"
		if len(ev.Recolored) > 0 {
			a.banner = fmt.Sprintf("No moves left, reshuffling (%d recolored)", len(ev.Recolored))
		}
		a.bannerTicks = bannerTicks

	case engine.GameWon:
		a.banner = "Target reached!"
		a.bannerTicks = bannerTicks

	case engine.GameLost:
		a.banner = "Out of turns"
		a.bannerTicks = bannerTicks
	}
}

// SetHighlighted implements engine.Highlighter.
func (a *animator) SetHighlighted(c engine.Coord, on bool) {
	if on {
		a.lit[c] = true
	} else {
		delete(a.lit, c)
	}
}

// durationFor picks how long a move takes on screen.
func (a *animator) durationFor(ev engine.TileMoved) int {
	switch a.state {
	case engine.StatePendingSwap, engine.StateReverting, engine.StateShuffling:
		return a.swapTicks
	}
	return a.fallTicks * max(1, ev.From.Manhattan(ev.To))
}

// advance moves every sprite one tick forward and acknowledges the moves
// that landed. Acknowledging may start the next phase, which queues new
// moves for later ticks.
func (a *animator) advance(done func(engine.TileID)) {
	for _, sp := range a.sprites {
		if sp.moving() {
			sp.elapsed++
		}
	}

	var landed []engine.TileID
	waiting := a.pending[:0]
	for _, id := range a.pending {
		if sp, ok := a.sprites[id]; ok && sp.moving() {
			waiting = append(waiting, id)
			continue
		}
		landed = append(landed, id)
	}
	a.pending = waiting
	for _, id := range landed {
		done(id)
	}

	kept := a.bursts[:0]
	for _, b := range a.bursts {
		if b.ticks--; b.ticks > 0 {
			kept = append(kept, b)
		}
	}
	a.bursts = kept

	if a.popupTicks > 0 {
		a.popupTicks--
	}
	if a.bannerTicks > 0 {
		a.bannerTicks--
	}
}

// busy reports whether any move is still on screen.
func (a *animator) busy() bool {
	return len(a.pending) > 0
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
