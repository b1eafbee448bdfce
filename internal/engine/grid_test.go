package engine

import (
	"errors"
	"math/rand"
	"testing"
)

const plainBoard = `
	CDEFAB
	DEFABC
	EFABCD
	FABCDE
	ABCDEF
	BCDEFA`

func TestGridGetBounds(t *testing.T) {
	g := MustParseBoard(`
		AB.
		CDE
		FAB`, 6, nil)

	tests := []struct {
		name string
		at   Coord
		want Kind
	}{
		{"occupied", At(0, 0), KindRed},
		{"empty slot", At(0, 2), KindEmpty},
		{"row above", At(-1, 0), KindNone},
		{"col right", At(0, 3), KindNone},
		{"row below", At(3, 1), KindNone},
		{"last cell", At(2, 2), KindGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Get(tt.at); got != tt.want {
				t.Errorf("Get(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestSwapRoundTrip(t *testing.T) {
	g := MustParseBoard(plainBoard, 6, nil)
	before := g.String()
	ids := make(map[Coord]TileID)
	for _, tile := range g.Tiles() {
		ids[tile.Pos()] = tile.ID
	}

	for _, sw := range []Swap{
		{At(0, 0), At(0, 1)},
		{At(2, 3), At(3, 3)},
		{At(5, 5), At(5, 4)},
	} {
		if err := g.SwapPositions(sw.A, sw.B); err != nil {
			t.Fatalf("SwapPositions(%v) error = %v", sw, err)
		}
		if err := g.SwapPositions(sw.A, sw.B); err != nil {
			t.Fatalf("second SwapPositions(%v) error = %v", sw, err)
		}
	}

	if got := g.String(); got != before {
		t.Errorf("board after round trip:\n%s\nwant:\n%s", got, before)
	}
	for _, tile := range g.Tiles() {
		if ids[tile.Pos()] != tile.ID {
			t.Errorf("tile %d ended at %v, want tile %d there", tile.ID, tile.Pos(), ids[tile.Pos()])
		}
	}
	if err := g.checkPositions(); err != nil {
		t.Errorf("checkPositions() = %v", err)
	}
}

func TestSwapPositionsInvalid(t *testing.T) {
	g := MustParseBoard(`
		AB.
		CDE
		FAB`, 6, nil)

	tests := []struct {
		name string
		a, b Coord
	}{
		{"diagonal", At(0, 0), At(1, 1)},
		{"distance two", At(0, 0), At(0, 2)},
		{"same cell", At(1, 1), At(1, 1)},
		{"out of range", At(2, 2), At(3, 2)},
		{"empty slot", At(0, 1), At(0, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.String()
			err := g.SwapPositions(tt.a, tt.b)
			if !errors.Is(err, ErrInvalidSwap) {
				t.Errorf("SwapPositions(%v, %v) error = %v, want ErrInvalidSwap", tt.a, tt.b, err)
			}
			if g.String() != before {
				t.Error("invalid swap changed the board")
			}
		})
	}
}

func TestRemoveAtIdempotent(t *testing.T) {
	g := MustParseBoard(plainBoard, 6, nil)
	if !g.RemoveAt(At(2, 2)) {
		t.Fatal("first RemoveAt() = false, want true")
	}
	if g.RemoveAt(At(2, 2)) {
		t.Error("second RemoveAt() = true, want false")
	}
	if g.Get(At(2, 2)) != KindEmpty {
		t.Errorf("Get after remove = %v, want empty", g.Get(At(2, 2)))
	}
}

func TestGenerateTileExclusion(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGrid(3, 3, 3, rng)

	for i := 0; i < 200; i++ {
		tile, err := g.GenerateTile(At(1, 1), KindRed, KindBlue)
		if err != nil {
			t.Fatalf("GenerateTile() error = %v", err)
		}
		if tile.Kind != KindGreen {
			t.Fatalf("GenerateTile() kind = %v, want green", tile.Kind)
		}
	}

	_, err := g.GenerateTile(At(0, 0), KindRed, KindGreen, KindBlue)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("GenerateTile() with all kinds excluded error = %v, want ErrConfiguration", err)
	}
}

func TestGenerateTileIDsUnique(t *testing.T) {
	g := NewGrid(4, 4, 4, rand.New(rand.NewSource(1)))
	seen := make(map[TileID]bool)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			tile := g.spawn(At(r, c))
			if seen[tile.ID] {
				t.Fatalf("duplicate tile id %d", tile.ID)
			}
			seen[tile.ID] = true
		}
	}
}

func TestCollapseColumn(t *testing.T) {
	g := MustParseBoard(`
		AB
		.C
		D.
		.E
		FA`, 6, nil)

	vacated, moves := g.CollapseColumn(0)
	if vacated != 2 {
		t.Errorf("vacated = %d, want 2", vacated)
	}
	if len(moves) != 2 {
		t.Errorf("moves = %d, want 2", len(moves))
	}
	want := []Kind{KindEmpty, KindEmpty, KindRed, KindYellow, KindOrange}
	for r, k := range want {
		if got := g.Get(At(r, 0)); got != k {
			t.Errorf("col 0 row %d = %v, want %v", r, got, k)
		}
	}

	vacated, _ = g.CollapseColumn(1)
	if vacated != 1 {
		t.Errorf("col 1 vacated = %d, want 1", vacated)
	}
	if err := g.checkPositions(); err != nil {
		t.Errorf("checkPositions() = %v", err)
	}
}

func TestSettleLeavesNoGaps(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := NewGrid(8, 8, 6, rng)
		for r := 0; r < 8; r++ {
			for c := 0; c < 8; c++ {
				g.spawn(At(r, c))
			}
		}
		for i := 0; i < 20; i++ {
			g.RemoveAt(At(rng.Intn(8), rng.Intn(8)))
		}

		res := NewCollapser(g).Settle(nil)
		if err := NewCollapser(g).checkSettled(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, m := range res.Moves {
			if m.From.Col != m.To.Col || m.From.Row >= m.To.Row {
				t.Errorf("seed %d: move %v -> %v is not a straight fall", seed, m.From, m.To)
			}
		}
	}
}

func TestSettleColumnBonus(t *testing.T) {
	g := MustParseBoard(`
		ABC
		BCA
		CAB`, 3, rand.New(rand.NewSource(3)))
	g.RemoveAt(At(0, 1))
	g.RemoveAt(At(1, 1))

	res := NewCollapser(g).Settle(map[int]Kind{1: KindRocket})
	if len(res.Created) != 2 {
		t.Fatalf("created = %d, want 2", len(res.Created))
	}
	if got := g.Get(At(1, 1)); got != KindRocket {
		t.Errorf("lowest refill = %v, want rocket", got)
	}
	if got := g.Get(At(0, 1)); !got.IsBase() {
		t.Errorf("top refill = %v, want a base kind", got)
	}
	for _, m := range res.Moves {
		if m.From.Row >= 0 {
			t.Errorf("refill move %v -> %v should start above the board", m.From, m.To)
		}
	}
}

func TestParseBoardErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{"ragged", "ABC\nAB\nABC"},
		{"unknown symbol", "ABC\nAXC\nABC"},
		{"too few rows", "ABC\nABC"},
		{"kind beyond range", "ABC\nABF\nABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoard(tt.layout, 4, nil)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("ParseBoard() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestGridString(t *testing.T) {
	layout := "A*^\n@.B\nCDE"
	g := MustParseBoard(layout, 6, nil)
	if got := g.String(); got != layout {
		t.Errorf("String() = %q, want %q", got, layout)
	}
}
