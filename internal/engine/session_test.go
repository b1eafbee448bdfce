package engine

import (
	"errors"
	"testing"
	"time"
)

// Row 0 is one swap away from AAA: (0,2) B trades with (1,2) A.
const rowBoard = `
	AABCDE
	CDAEFB
	DECFBC
	EFDBCD
	FBECDE
	BCFDEF`

// Row 0 is one swap away from AAAA.
const fourBoard = `
	AABACD
	CDAEFB
	DECFBC
	EFDBCD
	FBECDE
	BCFDEF`

// Swapping the bomb down completes AAAA; its own blast eats the pivot.
const blastBoard = `
	AA*ACD
	CDAEFB
	DECFBC
	EFDBCD
	FBECDE
	BCFDEF`

func testConfig(rows, cols int) Config {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = rows, cols
	cfg.ScoreToWin = 0
	return cfg
}

func newBoardSession(t *testing.T, cfg Config, layout string, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithSeed(1), WithBoard(layout)}, opts...)
	s, err := NewSession(cfg, opts...)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

type hostRecorder struct {
	Recorder
	lit map[Coord]bool
}

func newHostRecorder() *hostRecorder {
	return &hostRecorder{lit: make(map[Coord]bool)}
}

func (h *hostRecorder) SetHighlighted(c Coord, on bool) {
	h.lit[c] = on
}

// firstPass returns the cells destroyed before the first score change and
// that change.
func firstPass(events []Event) ([]Coord, ScoreChanged) {
	var cells []Coord
	for _, e := range events {
		switch ev := e.(type) {
		case TileDestroyed:
			cells = append(cells, ev.At)
		case ScoreChanged:
			return cells, ev
		}
	}
	return cells, ScoreChanged{}
}

func TestSwapDestroysRow(t *testing.T) {
	rec := newHostRecorder()
	s := newBoardSession(t, testConfig(6, 6), rowBoard, WithListener(rec))

	if err := s.RequestSwap(At(0, 2), At(1, 2)); err != nil {
		t.Fatalf("RequestSwap() error = %v", err)
	}

	cells, change := firstPass(rec.Events)
	want := []Coord{At(0, 0), At(0, 1), At(0, 2)}
	if len(cells) != len(want) {
		t.Fatalf("first pass destroyed %v, want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("destroyed[%d] = %v, want %v", i, cells[i], want[i])
		}
	}
	if change.Delta != 3*s.Config().PointsPerTile {
		t.Errorf("first score delta = %d, want %d", change.Delta, 3*s.Config().PointsPerTile)
	}
	if s.TurnsLeft() != 19 {
		t.Errorf("TurnsLeft() = %d, want 19", s.TurnsLeft())
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if got, want := s.Score(), s.Stats().TilesDestroyed*s.Config().PointsPerTile; got != want {
		t.Errorf("Score() = %d, want %d", got, want)
	}
}

func TestNoMatchReverts(t *testing.T) {
	rec := newHostRecorder()
	s := newBoardSession(t, testConfig(6, 6), rowBoard, WithListener(rec))
	before := s.Grid().String()

	if err := s.RequestSwap(At(0, 2), At(0, 1)); err != nil {
		t.Fatalf("RequestSwap() error = %v", err)
	}

	if got := s.Grid().String(); got != before {
		t.Errorf("board after revert:\n%s\nwant:\n%s", got, before)
	}
	if s.TurnsLeft() != 20 {
		t.Errorf("TurnsLeft() = %d, want 20", s.TurnsLeft())
	}
	if s.Score() != 0 {
		t.Errorf("Score() = %d, want 0", s.Score())
	}
	if s.Stats().Reverts != 1 {
		t.Errorf("Reverts = %d, want 1", s.Stats().Reverts)
	}
	moved := rec.Count(func(e Event) bool { _, ok := e.(TileMoved); return ok })
	if moved != 4 {
		t.Errorf("TileMoved events = %d, want 4", moved)
	}
	if err := s.Grid().checkPositions(); err != nil {
		t.Error(err)
	}
}

func TestFourInARowLeavesBomb(t *testing.T) {
	rec := newHostRecorder()
	s := newBoardSession(t, testConfig(6, 6), fourBoard, WithListener(rec))

	if err := s.RequestSwap(At(0, 2), At(1, 2)); err != nil {
		t.Fatalf("RequestSwap() error = %v", err)
	}

	cells, change := firstPass(rec.Events)
	if len(cells) != 3 {
		t.Errorf("first pass destroyed %v, want 3 cells", cells)
	}
	for _, c := range cells {
		if c == At(0, 2) {
			t.Error("the triggering cell was destroyed")
		}
	}
	if change.Delta != 300 {
		t.Errorf("score delta = %d, want 300", change.Delta)
	}
	if got := s.Grid().Get(At(0, 2)); got != KindBomb {
		t.Errorf("Get((0,2)) = %v, want bomb", got)
	}
	if s.Stats().BonusesCreated != 1 {
		t.Errorf("BonusesCreated = %d, want 1", s.Stats().BonusesCreated)
	}
}

func TestConsumedPivotMovesBonusToRefill(t *testing.T) {
	rec := newHostRecorder()
	s := newBoardSession(t, testConfig(6, 6), blastBoard, WithListener(rec))

	if err := s.RequestSwap(At(1, 2), At(0, 2)); err != nil {
		t.Fatalf("RequestSwap() error = %v", err)
	}

	_, change := firstPass(rec.Events)
	// Bomb blast rows 0-2 x cols 1-3, plus (0,0) from the run.
	if change.Delta != 1000 {
		t.Errorf("score delta = %d, want 1000", change.Delta)
	}

	var created *TileCreated
	for _, e := range rec.Events {
		if ev, ok := e.(TileCreated); ok && ev.Kind == KindBomb {
			created = &ev
			break
		}
	}
	if created == nil {
		t.Fatal("no bomb was created")
	}
	if created.At != At(2, 2) {
		t.Errorf("bomb created at %v, want (2,2)", created.At)
	}
}

func TestTurnAccounting(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		cfg := testConfig(8, 8)
		cfg.TurnsPerGame = 100
		s, err := NewSession(cfg, WithSeed(seed))
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 30 && s.State() == StateIdle; i++ {
			var swap Swap
			legal := i%2 == 0
			if legal {
				swap, _ = s.Hint()
			} else {
				swap = illegalSwap(t, s)
			}

			turns, score, destroyed := s.TurnsLeft(), s.Score(), s.Stats().TilesDestroyed
			if err := s.RequestSwap(swap.A, swap.B); err != nil {
				t.Fatalf("seed %d: RequestSwap(%v) error = %v", seed, swap, err)
			}

			wantTurns := turns
			if legal {
				wantTurns--
			}
			if s.TurnsLeft() != wantTurns {
				t.Errorf("seed %d move %d: TurnsLeft() = %d, want %d", seed, i, s.TurnsLeft(), wantTurns)
			}
			gained := (s.Stats().TilesDestroyed - destroyed) * cfg.PointsPerTile
			if s.Score()-score != gained {
				t.Errorf("seed %d move %d: score +%d, want +%d", seed, i, s.Score()-score, gained)
			}
			if legal && gained == 0 {
				t.Errorf("seed %d move %d: legal swap scored nothing", seed, i)
			}
		}
	}
}

func illegalSwap(t *testing.T, s *Session) Swap {
	t.Helper()
	for r := 0; r < s.grid.Rows(); r++ {
		for c := 0; c+1 < s.grid.Cols(); c++ {
			a, b := At(r, c), At(r, c+1)
			// Bonus tiles always go off, so they never revert.
			if !s.grid.Get(a).IsBase() || !s.grid.Get(b).IsBase() {
				continue
			}
			if !s.finder.IsLegal(a, b) {
				return Swap{A: a, B: b}
			}
		}
	}
	t.Fatal("every horizontal swap is legal")
	return Swap{}
}

func TestAnimatedSessionWaitsForMoves(t *testing.T) {
	s := newBoardSession(t, testConfig(6, 6), rowBoard, WithAnimation())

	if err := s.RequestSwap(At(0, 2), At(1, 2)); err != nil {
		t.Fatalf("RequestSwap() error = %v", err)
	}
	if s.State() != StatePendingSwap {
		t.Fatalf("State() = %v, want pending_swap", s.State())
	}
	if got := len(s.Outstanding()); got != 2 {
		t.Errorf("Outstanding() = %d tiles, want 2", got)
	}
	if err := s.Select(At(3, 3)); !errors.Is(err, ErrBusy) {
		t.Errorf("Select() while busy error = %v, want ErrBusy", err)
	}

	// Unknown tiles are ignored.
	s.MoveDone(TileID(1 << 40))
	if !s.Waiting() {
		t.Fatal("unknown MoveDone released the barrier")
	}

	for rounds := 0; s.Waiting(); rounds++ {
		if rounds > 1000 {
			t.Fatal("barrier never released")
		}
		for _, id := range s.Outstanding() {
			s.MoveDone(id)
		}
	}

	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.TurnsLeft() != 19 {
		t.Errorf("TurnsLeft() = %d, want 19", s.TurnsLeft())
	}
	if err := NewCollapser(s.grid).checkSettled(); err != nil {
		t.Error(err)
	}
}

func TestAnimatedSessionAcceptsAcksDuringEmission(t *testing.T) {
	var s *Session
	ack := ListenerFunc(func(e Event) {
		if m, ok := e.(TileMoved); ok {
			s.MoveDone(m.Tile)
		}
	})
	s = newBoardSession(t, testConfig(6, 6), rowBoard, WithAnimation(), WithListener(ack))

	if err := s.RequestSwap(At(0, 2), At(1, 2)); err != nil {
		t.Fatalf("RequestSwap() error = %v", err)
	}
	if s.Waiting() {
		t.Fatalf("Waiting() = true with %d outstanding, want every move acknowledged", len(s.Outstanding()))
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.TurnsLeft() != 19 {
		t.Errorf("TurnsLeft() = %d, want 19", s.TurnsLeft())
	}
	if err := NewCollapser(s.grid).checkSettled(); err != nil {
		t.Error(err)
	}
}

func TestDestroyedTilesAreNotAwaited(t *testing.T) {
	rec := &Recorder{}
	s := newBoardSession(t, testConfig(6, 6), rowBoard, WithAnimation(), WithListener(rec))

	if err := s.RequestSwap(At(0, 2), At(1, 2)); err != nil {
		t.Fatal(err)
	}
	for _, id := range s.Outstanding() {
		s.MoveDone(id)
	}

	destroyed := make(map[TileID]bool)
	for _, e := range rec.Events {
		if d, ok := e.(TileDestroyed); ok {
			destroyed[d.Tile] = true
		}
	}
	if len(destroyed) == 0 {
		t.Fatal("no tiles destroyed")
	}
	for _, id := range s.Outstanding() {
		if destroyed[id] {
			t.Errorf("destroyed tile %d is awaited", id)
		}
	}
}

func TestSelect(t *testing.T) {
	rec := newHostRecorder()
	s := newBoardSession(t, testConfig(6, 6), rowBoard, WithListener(rec))

	mustSelect := func(c Coord) {
		t.Helper()
		if err := s.Select(c); err != nil {
			t.Fatalf("Select(%v) error = %v", c, err)
		}
	}

	mustSelect(At(0, 0))
	if got, ok := s.Selected(); !ok || got != At(0, 0) {
		t.Errorf("Selected() = %v, %v, want (0,0)", got, ok)
	}
	if !rec.lit[At(0, 0)] {
		t.Error("selection not highlighted")
	}

	mustSelect(At(0, 0))
	if _, ok := s.Selected(); ok {
		t.Error("second click did not clear the selection")
	}
	if rec.lit[At(0, 0)] {
		t.Error("highlight not cleared")
	}

	mustSelect(At(0, 0))
	mustSelect(At(2, 2))
	if got, _ := s.Selected(); got != At(2, 2) {
		t.Errorf("Selected() = %v, want (2,2)", got)
	}

	// Adjacent click swaps; this one reverts.
	mustSelect(At(1, 2))
	if _, ok := s.Selected(); ok {
		t.Error("selection survived a swap")
	}
	if s.Stats().Reverts != 1 {
		t.Errorf("Reverts = %d, want 1", s.Stats().Reverts)
	}
	if s.TurnsLeft() != 20 {
		t.Errorf("TurnsLeft() = %d, want 20", s.TurnsLeft())
	}
}

func TestRequestSwapInvalid(t *testing.T) {
	s := newBoardSession(t, testConfig(6, 6), rowBoard)

	err := s.RequestSwap(At(0, 0), At(2, 2))
	if !errors.Is(err, ErrInvalidSwap) {
		t.Fatalf("RequestSwap() error = %v, want ErrInvalidSwap", err)
	}
	if got, ok := s.Selected(); !ok || got != At(2, 2) {
		t.Errorf("Selected() = %v, %v, want (2,2)", got, ok)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestWinAndLose(t *testing.T) {
	t.Run("win", func(t *testing.T) {
		cfg := testConfig(6, 6)
		cfg.ScoreToWin = 300
		rec := newHostRecorder()
		s := newBoardSession(t, cfg, rowBoard, WithListener(rec))

		if err := s.RequestSwap(At(0, 2), At(1, 2)); err != nil {
			t.Fatal(err)
		}
		if !s.Won() {
			t.Fatalf("State() = %v, want won", s.State())
		}
		if n := rec.Count(func(e Event) bool { _, ok := e.(GameWon); return ok }); n != 1 {
			t.Errorf("GameWon events = %d, want 1", n)
		}
		if err := s.RequestSwap(At(0, 0), At(0, 1)); !errors.Is(err, ErrGameOver) {
			t.Errorf("RequestSwap() after win error = %v, want ErrGameOver", err)
		}
		if err := s.Select(At(0, 0)); !errors.Is(err, ErrGameOver) {
			t.Errorf("Select() after win error = %v, want ErrGameOver", err)
		}
	})

	t.Run("lose", func(t *testing.T) {
		cfg := testConfig(6, 6)
		cfg.TurnsPerGame = 1
		cfg.ScoreToWin = 1_000_000
		rec := newHostRecorder()
		s := newBoardSession(t, cfg, rowBoard, WithListener(rec))

		if err := s.RequestSwap(At(0, 2), At(1, 2)); err != nil {
			t.Fatal(err)
		}
		if !s.Lost() {
			t.Fatalf("State() = %v, want lost", s.State())
		}
		if n := rec.Count(func(e Event) bool { _, ok := e.(GameLost); return ok }); n != 1 {
			t.Errorf("GameLost events = %d, want 1", n)
		}
	})
}

func TestEndlessNeverEnds(t *testing.T) {
	cfg := testConfig(8, 8)
	cfg.TurnsPerGame = 0
	s, err := NewSession(cfg, WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 40; i++ {
		swap, ok := s.Hint()
		if !ok {
			t.Fatalf("move %d: no hint in state %v", i, s.State())
		}
		if err := s.RequestSwap(swap.A, swap.B); err != nil {
			t.Fatal(err)
		}
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.TurnsLeft() != 0 {
		t.Errorf("TurnsLeft() = %d, want 0", s.TurnsLeft())
	}
}

func TestHintAfterIdle(t *testing.T) {
	start := time.Unix(1_000, 0)
	now := start
	rec := newHostRecorder()
	s := newBoardSession(t, testConfig(6, 6), rowBoard,
		WithListener(rec),
		WithClock(func() time.Time { return now }),
	)
	hints := func() int {
		return rec.Count(func(e Event) bool { _, ok := e.(HintAvailable); return ok })
	}

	s.Tick(start.Add(9 * time.Second))
	if hints() != 0 {
		t.Fatal("hint shown before the idle threshold")
	}

	s.Tick(start.Add(10 * time.Second))
	s.Tick(start.Add(30 * time.Second))
	if hints() != 1 {
		t.Fatalf("hints = %d, want 1", hints())
	}
	hint, ok := s.CurrentHint()
	if !ok {
		t.Fatal("CurrentHint() = none")
	}
	if !s.finder.IsLegal(hint.A, hint.B) {
		t.Errorf("hint %v is not a legal move", hint)
	}
	if !rec.lit[hint.A] || !rec.lit[hint.B] {
		t.Error("hint cells not highlighted")
	}

	now = start.Add(40 * time.Second)
	if err := s.RequestSwap(hint.A, hint.B); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.CurrentHint(); ok {
		t.Error("hint survived the swap")
	}
	if rec.lit[hint.A] || rec.lit[hint.B] {
		t.Error("hint highlight not cleared")
	}

	s.Tick(now.Add(10 * time.Second))
	if hints() != 2 {
		t.Errorf("hints = %d after the next turn, want 2", hints())
	}
}

func TestHintSurvivesSelectionOnHintCell(t *testing.T) {
	start := time.Unix(1_000, 0)
	rec := newHostRecorder()
	s := newBoardSession(t, testConfig(6, 6), rowBoard,
		WithListener(rec),
		WithClock(func() time.Time { return start }),
	)
	s.Tick(start.Add(10 * time.Second))
	hint, ok := s.CurrentHint()
	if !ok {
		t.Fatal("CurrentHint() = none")
	}

	if err := s.Select(hint.A); err != nil {
		t.Fatal(err)
	}
	if err := s.Select(hint.A); err != nil {
		t.Fatal(err)
	}
	if at, ok := s.Selected(); ok {
		t.Fatalf("Selected() = %v, want none", at)
	}
	if _, ok := s.CurrentHint(); !ok {
		t.Fatal("hint cleared by the selection")
	}
	for _, c := range []Coord{hint.A, hint.B} {
		if !s.Highlighted(c) {
			t.Errorf("Highlighted(%v) = false, want true", c)
		}
		if !rec.lit[c] {
			t.Errorf("host highlight of %v cleared", c)
		}
	}
}

func TestDeterminism(t *testing.T) {
	play := func() Snapshot {
		s, err := NewSession(testConfig(8, 8), WithSeed(42))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 15; i++ {
			swap, ok := s.Hint()
			if !ok {
				break
			}
			if err := s.RequestSwap(swap.A, swap.B); err != nil {
				t.Fatal(err)
			}
		}
		return s.Snapshot()
	}

	a, b := play(), play()
	if !a.Equal(b) {
		t.Errorf("same seed diverged:\n%v\n%v", a.Board, b.Board)
	}
}

func TestInitialBoard(t *testing.T) {
	sizes := []struct{ rows, cols int }{{8, 8}, {3, 3}, {5, 7}, {MaxRows, MaxCols}}
	for _, size := range sizes {
		for seed := int64(1); seed <= 20; seed++ {
			s, err := NewSession(testConfig(size.rows, size.cols), WithSeed(seed))
			if err != nil {
				t.Fatal(err)
			}
			if runs := s.detector.ScanFull(); len(runs) != 0 {
				t.Errorf("%dx%d seed %d: initial board has runs %v", size.rows, size.cols, seed, runs)
			}
			if _, ok := s.Hint(); !ok {
				t.Errorf("%dx%d seed %d: initial board is stuck", size.rows, size.cols, seed)
			}
		}
	}
}

func TestNewSessionConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func(*Config)
		field string
	}{
		{"too few rows", func(c *Config) { c.Rows = 2 }, "rows"},
		{"too many cols", func(c *Config) { c.Cols = MaxCols + 1 }, "cols"},
		{"too few kinds", func(c *Config) { c.BaseKinds = 2 }, "base_kinds"},
		{"negative turns", func(c *Config) { c.TurnsPerGame = -1 }, "turns"},
		{"zero points", func(c *Config) { c.PointsPerTile = 0 }, "points_per_tile"},
		{"rocket", func(c *Config) { c.RocketDirection = "sideways" }, "rocket_direction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)
			_, err := NewSession(cfg)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("NewSession() error = %v, want ErrConfiguration", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("ConfigError field = %v, want %s", ce, tt.field)
			}
		})
	}

	_, err := NewSession(DefaultConfig(), WithBoard(rowBoard))
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("layout size mismatch error = %v, want ErrConfiguration", err)
	}
}
