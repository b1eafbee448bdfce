package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// ParseBoard builds a grid from text rows, top row first. Symbols are
// A to F for the base kinds, '*' Bomb, '^' Rocket, '@' Rainbow and '.' for
// an empty slot. Whitespace inside a row is ignored and blank lines are
// skipped. The rng is used for later refills.
func ParseBoard(layout string, baseKinds int, rng *rand.Rand) (*Grid, error) {
	var rows [][]Kind
	for n, line := range strings.Split(layout, "\n") {
		line = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)
		if line == "" {
			continue
		}
		row := make([]Kind, 0, len(line))
		for _, sym := range line {
			k, ok := KindFromSymbol(sym)
			if !ok {
				return nil, &ConfigError{Field: "board", Reason: fmt.Sprintf("line %d: unknown symbol %q", n+1, sym)}
			}
			if k.IsBase() && k.Index() >= baseKinds {
				return nil, &ConfigError{Field: "board", Reason: fmt.Sprintf("line %d: %v exceeds %d base kinds", n+1, k, baseKinds)}
			}
			row = append(row, k)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, &ConfigError{Field: "board", Reason: fmt.Sprintf("line %d: %d cells, want %d", n+1, len(row), len(rows[0]))}
		}
		rows = append(rows, row)
	}

	if len(rows) < MinRows || len(rows) > MaxRows {
		return nil, &ConfigError{Field: "board", Reason: fmt.Sprintf("%d rows outside [%d, %d]", len(rows), MinRows, MaxRows)}
	}
	if cols := len(rows[0]); cols < MinCols || cols > MaxCols {
		return nil, &ConfigError{Field: "board", Reason: fmt.Sprintf("%d cols outside [%d, %d]", cols, MinCols, MaxCols)}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	g := NewGrid(len(rows), len(rows[0]), baseKinds, rng)
	for r, row := range rows {
		for c, k := range row {
			if k != KindEmpty {
				g.newTile(At(r, c), k)
			}
		}
	}
	return g, nil
}

// MustParseBoard is ParseBoard for fixtures known to be valid.
func MustParseBoard(layout string, baseKinds int, rng *rand.Rand) *Grid {
	g, err := ParseBoard(layout, baseKinds, rng)
	if err != nil {
		panic(err)
	}
	return g
}
