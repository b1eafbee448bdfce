package ws

import (
	"github.com/vovakirdan/match3-arcade/internal/engine"
)

// Request types sent by clients.
const (
	RequestSelect   = "select"
	RequestSwap     = "swap"
	RequestDone     = "done"
	RequestHint     = "hint"
	RequestSnapshot = "snapshot"
	RequestRestart  = "restart"
)

// Reply types sent by the server.
const (
	ReplyUpdate = "update"
	ReplyHint   = "hint"
	ReplyError  = "error"
)

// Coord is a grid position on the wire.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func wireCoord(c engine.Coord) Coord {
	return Coord{Row: c.Row, Col: c.Col}
}

func (c Coord) engine() engine.Coord {
	return engine.At(c.Row, c.Col)
}

// Swap is a pair of adjacent positions on the wire.
type Swap struct {
	A Coord `json:"a"`
	B Coord `json:"b"`
}

func wireSwap(s engine.Swap) Swap {
	return Swap{A: wireCoord(s.A), B: wireCoord(s.B)}
}

// Request is one client message. Fields are used according to Type.
type Request struct {
	Type  string          `json:"type"`
	At    *Coord          `json:"at,omitempty"`    // select
	A     *Coord          `json:"a,omitempty"`     // swap
	B     *Coord          `json:"b,omitempty"`     // swap
	Tiles []engine.TileID `json:"tiles,omitempty"` // done
	Seed  int64           `json:"seed,omitempty"`  // restart, 0 picks a new seed
}

// Reply is one server message. Every request gets exactly one reply; hint
// timer events arrive as unsolicited updates.
type Reply struct {
	Type     string    `json:"type"`
	Events   []Event   `json:"events,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Swap     *Swap     `json:"swap,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Event is an engine event on the wire. Only the fields of the given Type are
// set.
type Event struct {
	Type      string  `json:"type"`
	Tile      *uint64 `json:"tile,omitempty"`
	At        *Coord  `json:"at,omitempty"`
	From      *Coord  `json:"from,omitempty"`
	To        *Coord  `json:"to,omitempty"`
	Kind      string  `json:"kind,omitempty"`
	Score     *int    `json:"score,omitempty"`
	Delta     *int    `json:"delta,omitempty"`
	TurnsLeft *int    `json:"turns_left,omitempty"`
	Swap      *Swap   `json:"swap,omitempty"`
	Moves     *int    `json:"moves,omitempty"`
	Recolored []Coord `json:"recolored,omitempty"`
	Selected  *bool   `json:"selected,omitempty"`
	OldState  string  `json:"old_state,omitempty"`
	NewState  string  `json:"new_state,omitempty"`
}

func ptr[T any](v T) *T {
	return &v
}

// encodeEvent converts an engine event. Unknown events are reported with
// an empty type and dropped by the caller.
func encodeEvent(e engine.Event) Event {
	switch e := e.(type) {
	case engine.TileDestroyed:
		return Event{Type: "tile_destroyed", Tile: ptr(uint64(e.Tile)), At: ptr(wireCoord(e.At)), Kind: e.Kind.String()}
	case engine.TileMoved:
		return Event{Type: "tile_moved", Tile: ptr(uint64(e.Tile)), From: ptr(wireCoord(e.From)), To: ptr(wireCoord(e.To))}
	case engine.TileCreated:
		return Event{Type: "tile_created", Tile: ptr(uint64(e.Tile)), At: ptr(wireCoord(e.At)), Kind: e.Kind.String()}
	case engine.ScoreChanged:
		return Event{Type: "score_changed", Score: ptr(e.Score), Delta: ptr(e.Delta)}
	case engine.TurnsChanged:
		return Event{Type: "turns_changed", TurnsLeft: ptr(e.TurnsLeft)}
	case engine.GameWon:
		return Event{Type: "game_won", Score: ptr(e.Score)}
	case engine.GameLost:
		return Event{Type: "game_lost", Score: ptr(e.Score)}
	case engine.HintAvailable:
		return Event{Type: "hint_available", Swap: ptr(wireSwap(e.Swap))}
	case engine.BoardReshuffled:
		recolored := make([]Coord, len(e.Recolored))
		for i, c := range e.Recolored {
			recolored[i] = wireCoord(c)
		}
		return Event{Type: "board_reshuffled", Kind: e.Kind.String(), Moves: ptr(e.Moves), Recolored: recolored}
	case engine.StateChanged:
		return Event{Type: "state_changed", OldState: e.From.String(), NewState: e.To.String()}
	case engine.SelectionChanged:
		return Event{Type: "selection_changed", At: ptr(wireCoord(e.At)), Selected: ptr(e.Selected)}
	}
	return Event{}
}

// Snapshot is the session state on the wire.
type Snapshot struct {
	Variant   string       `json:"variant"`
	Seed      int64        `json:"seed"`
	State     string       `json:"state"`
	Score     int          `json:"score"`
	TurnsLeft int          `json:"turns_left"`
	Board     []string     `json:"board"`
	Selected  *Coord       `json:"selected,omitempty"`
	Hint      *Swap        `json:"hint,omitempty"`
	Stats     engine.Stats `json:"stats"`
}

func encodeSnapshot(variant string, seed int64, s engine.Snapshot) *Snapshot {
	snap := &Snapshot{
		Variant:   variant,
		Seed:      seed,
		State:     s.State.String(),
		Score:     s.Score,
		TurnsLeft: s.TurnsLeft,
		Board:     s.Board,
		Stats:     s.Stats,
	}
	if s.Selected != nil {
		snap.Selected = ptr(wireCoord(*s.Selected))
	}
	if s.Hint != nil {
		snap.Hint = ptr(wireSwap(*s.Hint))
	}
	return snap
}
