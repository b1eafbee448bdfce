package engine

// Event is a notification from a Session to its presentation layer.
type Event interface {
	engineEvent()
}

// TileDestroyed is sent for every tile removed from the board.
type TileDestroyed struct {
	Tile TileID
	At   Coord
	Kind Kind
}

// TileMoved is a motion intent. When the session is animated, the resolution
// pass waits until MoveDone was called for each emitted TileMoved.
type TileMoved struct {
	Tile TileID
	From Coord
	To   Coord
}

// TileCreated is sent for new tiles and for tiles converted into a bonus.
type TileCreated struct {
	Tile TileID
	At   Coord
	Kind Kind
}

// ScoreChanged carries the new score and the points of one pass.
type ScoreChanged struct {
	Score int
	Delta int
}

// TurnsChanged carries the remaining turns after a successful swap.
type TurnsChanged struct {
	TurnsLeft int
}

// GameWon is sent once when the score reaches the threshold.
type GameWon struct {
	Score int
}

// GameLost is sent once when the turns run out below the threshold.
type GameLost struct {
	Score int
}

// HintAvailable suggests a legal swap after the player has been idle.
type HintAvailable struct {
	Swap Swap
}

// BoardReshuffled is sent when a stuck board was rearranged.
type BoardReshuffled struct {
	Kind      Kind
	Moves     int
	Recolored []Coord
}

// StateChanged reports a session state transition.
type StateChanged struct {
	From State
	To   State
}

// SelectionChanged reports the selected cell, if any.
type SelectionChanged struct {
	At       Coord
	Selected bool
}

func (TileDestroyed) engineEvent()    {}
func (TileMoved) engineEvent()        {}
func (TileCreated) engineEvent()      {}
func (ScoreChanged) engineEvent()     {}
func (TurnsChanged) engineEvent()     {}
func (GameWon) engineEvent()          {}
func (GameLost) engineEvent()         {}
func (HintAvailable) engineEvent()    {}
func (BoardReshuffled) engineEvent()  {}
func (StateChanged) engineEvent()     {}
func (SelectionChanged) engineEvent() {}

// Listener receives session events synchronously, in emission order.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Highlighter is an optional Listener capability for marking cells, used
// for the current selection and for hints.
type Highlighter interface {
	SetHighlighted(at Coord, on bool)
}

// Recorder is a Listener that keeps every event. Useful for tests and
// replays.
type Recorder struct {
	Events []Event
}

// OnEvent appends e.
func (r *Recorder) OnEvent(e Event) {
	r.Events = append(r.Events, e)
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Count returns how many recorded events satisfy match.
func (r *Recorder) Count(match func(Event) bool) int {
	n := 0
	for _, e := range r.Events {
		if match(e) {
			n++
		}
	}
	return n
}
