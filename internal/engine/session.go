package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// State is the turn controller state.
type State int

const (
	StateIdle State = iota
	StatePendingSwap
	StateResolving
	StateCascading
	StateReverting
	StateShuffling
	StateWon
	StateLost
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StatePendingSwap: "pending_swap",
	StateResolving:   "resolving",
	StateCascading:   "cascading",
	StateReverting:   "reverting",
	StateShuffling:   "shuffling",
	StateWon:         "won",
	StateLost:        "lost",
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the game has ended.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// Stats counts what happened during a session.
type Stats struct {
	Swaps            int // Successful player swaps
	Reverts          int
	Passes           int // Destruction passes, swap-triggered and cascades
	Cascades         int
	TilesDestroyed   int
	BonusesCreated   int
	BonusesActivated int
	Shuffles         int
	Regenerations    int
	CascadeCapHits   int
}

// Option configures a Session.
type Option func(*Session)

// WithSeed seeds the tile generator.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses r as the tile generator.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.rng = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithListener registers the presentation layer. If l also implements
// Highlighter, selection and hint highlights are forwarded to it.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
		if h, ok := l.(Highlighter); ok {
			s.highlighter = h
		}
	}
}

// WithAnimation makes every resolution phase wait for MoveDone on each
// emitted TileMoved before continuing.
func WithAnimation() Option {
	return func(s *Session) {
		s.animated = true
	}
}

// WithClock sets the time source used for hint timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithBoard starts from a fixture layout instead of a random fill. See
// ParseBoard for the format.
func WithBoard(layout string) Option {
	return func(s *Session) {
		s.layout = layout
	}
}

// Session is one game: it owns the grid, the counters and the turn state
// machine. A Session is not safe for concurrent use.
type Session struct {
	cfg         Config
	rng         *rand.Rand
	logger      *log.Logger
	listener    Listener
	highlighter Highlighter
	animated    bool
	now         func() time.Time
	layout      string

	grid      *Grid
	detector  *MatchDetector
	collapser *Collapser
	finder    *MoveFinder

	state     State
	selected  *Coord
	swap      Swap
	score     int
	turnsLeft int

	columnBonus  map[int]Kind
	touched      []Coord
	passCascades int
	shuffleTries int

	idleSince   time.Time
	hintShown   bool
	hint        *Swap
	highlighted map[Coord]highlight

	stats   Stats
	barrier barrier
}

// NewSession validates cfg, fills the board and returns a session in the
// Idle state with at least one legal move available.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:         cfg,
		logger:      log.New(io.Discard),
		now:         time.Now,
		turnsLeft:   cfg.TurnsPerGame,
		columnBonus: make(map[int]Kind),
		highlighted: make(map[Coord]highlight),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if s.layout != "" {
		g, err := ParseBoard(s.layout, cfg.BaseKinds, s.rng)
		if err != nil {
			return nil, err
		}
		if g.Rows() != cfg.Rows || g.Cols() != cfg.Cols {
			return nil, &ConfigError{
				Field:  "board",
				Reason: fmt.Sprintf("layout is %dx%d, config wants %dx%d", g.Rows(), g.Cols(), cfg.Rows, cfg.Cols),
			}
		}
		s.attach(g)
	} else {
		s.attach(NewGrid(cfg.Rows, cfg.Cols, cfg.BaseKinds, s.rng))
		s.fill()
	}

	s.idleSince = s.now()
	s.logger.Debug("session ready", "rows", cfg.Rows, "cols", cfg.Cols, "kinds", cfg.BaseKinds, "turns", cfg.TurnsPerGame)
	return s, nil
}

func (s *Session) attach(g *Grid) {
	s.grid = g
	s.detector = NewMatchDetector(g)
	s.collapser = NewCollapser(g)
	s.finder = NewMoveFinder(g)
}

// fill generates a board without runs that has at least one legal move.
func (s *Session) fill() {
	const maxAttempts = 100
	for attempt := 1; ; attempt++ {
		for r := 0; r < s.cfg.Rows; r++ {
			for c := 0; c < s.cfg.Cols; c++ {
				s.grid.RemoveAt(At(r, c))
				s.grid.spawn(At(r, c))
			}
		}
		if _, ok := s.finder.AnyLegalMove(); ok {
			return
		}
		if s.patch() {
			s.logger.Debug("board patched", "attempt", attempt)
			return
		}
		if attempt == maxAttempts {
			s.logger.Error("could not build a playable board", "attempts", attempt)
			return
		}
	}
}

// patch paints (0,2) and (1,1) with the kind of (0,0) so that swapping
// (0,1) and (1,1) completes the top row. The patch is kept only when it
// adds no run of its own.
func (s *Session) patch() bool {
	k := s.grid.Get(At(0, 0))
	targets := [...]Coord{At(0, 2), At(1, 1)}
	old := make([]Kind, len(targets))
	for i, c := range targets {
		t := s.grid.Tile(c)
		old[i] = t.Kind
		t.Kind = k
	}
	if len(s.detector.ScanFull()) == 0 {
		if _, ok := s.finder.AnyLegalMove(); ok {
			return true
		}
	}
	for i, c := range targets {
		s.grid.Tile(c).Kind = old[i]
	}
	return false
}

// State returns the controller state.
func (s *Session) State() State {
	return s.state
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// TurnsLeft returns the remaining turns. Without a turn limit it is always 0.
func (s *Session) TurnsLeft() int {
	return s.turnsLeft
}

// Won reports whether the score threshold was reached.
func (s *Session) Won() bool {
	return s.state == StateWon
}

// Lost reports whether the turns ran out first.
func (s *Session) Lost() bool {
	return s.state == StateLost
}

// Selected returns the selected cell, if any.
func (s *Session) Selected() (Coord, bool) {
	if s.selected == nil {
		return Coord{}, false
	}
	return *s.selected, true
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Grid exposes the board for read access. Callers must not mutate it.
func (s *Session) Grid() *Grid {
	return s.grid
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Waiting reports whether the session is blocked on MoveDone calls.
func (s *Session) Waiting() bool {
	return s.barrier.armed()
}

// Outstanding returns the tiles whose motion has not been acknowledged.
func (s *Session) Outstanding() []TileID {
	return s.barrier.outstanding()
}

// Hint returns a legal swap on the current board.
func (s *Session) Hint() (Swap, bool) {
	if s.state != StateIdle {
		return Swap{}, false
	}
	return s.finder.AnyLegalMove()
}

// LegalMoves returns every legal swap on the current board.
func (s *Session) LegalMoves() []Swap {
	if s.state != StateIdle {
		return nil
	}
	return s.finder.LegalMoves()
}

// ready returns the error for input that cannot be accepted now.
func (s *Session) ready() error {
	switch {
	case s.state.Terminal():
		return ErrGameOver
	case s.state != StateIdle:
		return ErrBusy
	}
	return nil
}

// Select handles a click on c. The first click selects, a click on the
// selection clears it, a click on a neighbor swaps and any other click moves
// the selection.
func (s *Session) Select(c Coord) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.grid.InBounds(c) || s.grid.Tile(c) == nil {
		return nil
	}

	switch {
	case s.selected == nil:
		s.setSelection(&c)
	case *s.selected == c:
		s.setSelection(nil)
	case s.selected.Adjacent(c):
		a := *s.selected
		if err := s.RequestSwap(a, c); err != nil && !errors.Is(err, ErrInvalidSwap) {
			return err
		}
	default:
		s.setSelection(&c)
	}
	return nil
}

func (s *Session) setSelection(c *Coord) {
	if s.selected != nil {
		prev := *s.selected
		s.setHighlight(prev, highlightSelection, false)
		s.selected = nil
		s.emit(SelectionChanged{At: prev, Selected: false})
	}
	if c != nil {
		at := *c
		s.selected = &at
		s.setHighlight(at, highlightSelection, true)
		s.emit(SelectionChanged{At: at, Selected: true})
	}
}

// RequestSwap starts a player swap between a and b. A non-adjacent or
// empty pair makes b the new selection and returns ErrInvalidSwap.
func (s *Session) RequestSwap(a, b Coord) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !a.Adjacent(b) || s.grid.Tile(a) == nil || s.grid.Tile(b) == nil {
		if s.grid.Tile(b) != nil {
			s.setSelection(&b)
		}
		return ErrInvalidSwap
	}

	s.setSelection(nil)
	s.clearHint()
	s.swap = Swap{A: a, B: b}
	s.passCascades = 0
	s.logger.Debug("swap requested", "a", a, "b", b)

	ta, tb := s.grid.Tile(a), s.grid.Tile(b)
	s.setState(StatePendingSwap)
	s.moveAll([]Move{
		{Tile: ta.ID, From: a, To: b},
		{Tile: tb.ID, From: b, To: a},
	}, s.onSwapArrived)
	return nil
}

// MoveDone acknowledges that the presentation finished moving a tile. Calls
// for tiles that are not awaited are ignored.
func (s *Session) MoveDone(id TileID) {
	if next := s.barrier.done(id); next != nil {
		next()
	}
}

// Tick drives the hint timer. It emits HintAvailable once per turn after the
// player has been idle for HintAfter.
func (s *Session) Tick(now time.Time) {
	if s.state != StateIdle || s.hintShown || s.cfg.HintAfter <= 0 {
		return
	}
	if now.Sub(s.idleSince) < s.cfg.HintAfter {
		return
	}
	swap, ok := s.finder.AnyLegalMove()
	if !ok {
		return
	}
	s.hintShown = true
	s.hint = &swap
	s.setHighlight(swap.A, highlightHint, true)
	s.setHighlight(swap.B, highlightHint, true)
	s.emit(HintAvailable{Swap: swap})
}

// CurrentHint returns the hint on display, if any.
func (s *Session) CurrentHint() (Swap, bool) {
	if s.hint == nil {
		return Swap{}, false
	}
	return *s.hint, true
}

func (s *Session) clearHint() {
	if s.hint == nil {
		return
	}
	s.setHighlight(s.hint.A, highlightHint, false)
	s.setHighlight(s.hint.B, highlightHint, false)
	s.hint = nil
}

// highlight records why a cell is lit. The selection and the hint may light
// the same cell.
type highlight uint8

const (
	highlightSelection highlight = 1 << iota
	highlightHint
)

// Highlighted reports whether c is highlighted by the selection or the hint.
func (s *Session) Highlighted(c Coord) bool {
	return s.highlighted[c] != 0
}

// setHighlight adds or removes one reason for lighting c. The Highlighter
// hears about c only when it turns on or off as a whole.
func (s *Session) setHighlight(c Coord, why highlight, on bool) {
	was := s.highlighted[c]
	now := was &^ why
	if on {
		now = was | why
	}
	if now == 0 {
		delete(s.highlighted, c)
	} else {
		s.highlighted[c] = now
	}
	if (was != 0) != (now != 0) && s.highlighter != nil {
		s.highlighter.SetHighlighted(c, now != 0)
	}
}

func (s *Session) emit(e Event) {
	if s.listener != nil {
		s.listener.OnEvent(e)
	}
}

func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	s.emit(StateChanged{From: prev, To: next})
}

// moveAll emits the motion intents and continues with next once they are
// acknowledged. Without animation next runs immediately.
func (s *Session) moveAll(moves []Move, next func()) {
	if !s.animated || len(moves) == 0 {
		for _, m := range moves {
			s.emit(TileMoved{Tile: m.Tile, From: m.From, To: m.To})
		}
		next()
		return
	}

	ids := make([]TileID, 0, len(moves))
	for _, m := range moves {
		ids = append(ids, m.Tile)
	}
	s.barrier.arm(ids, next)
	for _, m := range moves {
		s.emit(TileMoved{Tile: m.Tile, From: m.From, To: m.To})
	}
	if next := s.barrier.release(); next != nil {
		next()
	}
}
