// Package engine implements the match-3 board rules: the tile grid, run
// detection, bonus tiles, gravity refill, stuck-board detection and the turn
// state machine that sequences them.
//
// The engine contains no rendering, timing or input code. It emits discrete
// events that a presentation layer consumes and waits for that layer to report
// finished tile motion before advancing.
package engine

import "fmt"

// MaxBaseKinds is the number of distinct base colors a board may use.
const MaxBaseKinds = 6

// Kind is the type of a tile: one of the base colors or a bonus kind.
// KindEmpty and KindNone are sentinels returned by boundary-safe lookups.
type Kind int8

const (
	KindNone  Kind = -2 // Outside the grid
	KindEmpty Kind = -1 // Vacant slot

	// Base colors occupy 0..MaxBaseKinds-1.
	KindRed Kind = iota - 2
	KindGreen
	KindBlue
	KindYellow
	KindPurple
	KindOrange

	// Bonus kinds never take part in runs.
	KindBomb
	KindRocket
	KindRainbow
)

// Color returns the base kind with the given index (0-based).
func Color(i int) Kind {
	return Kind(i)
}

// IsBase reports whether k is one of the base colors.
func (k Kind) IsBase() bool {
	return k >= 0 && k < MaxBaseKinds
}

// IsBonus reports whether k is Bomb, Rocket or Rainbow.
func (k Kind) IsBonus() bool {
	return k == KindBomb || k == KindRocket || k == KindRainbow
}

// IsTile reports whether k describes an actual tile (base or bonus).
func (k Kind) IsTile() bool {
	return k.IsBase() || k.IsBonus()
}

// Index returns the base color index, or -1 for anything else.
func (k Kind) Index() int {
	if !k.IsBase() {
		return -1
	}
	return int(k)
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEmpty:
		return "empty"
	case KindRed:
		return "red"
	case KindGreen:
		return "green"
	case KindBlue:
		return "blue"
	case KindYellow:
		return "yellow"
	case KindPurple:
		return "purple"
	case KindOrange:
		return "orange"
	case KindBomb:
		return "bomb"
	case KindRocket:
		return "rocket"
	case KindRainbow:
		return "rainbow"
	default:
		return fmt.Sprintf("kind(%d)", int8(k))
	}
}

// Symbol returns the single-character fixture symbol for the kind.
// Base colors use 'A'..'F', bonus kinds use '*' (bomb), '^' (rocket) and
// '@' (rainbow), and an empty slot is '.'.
func (k Kind) Symbol() rune {
	switch {
	case k.IsBase():
		return rune('A' + int(k))
	case k == KindBomb:
		return '*'
	case k == KindRocket:
		return '^'
	case k == KindRainbow:
		return '@'
	case k == KindEmpty:
		return '.'
	default:
		return '?'
	}
}

// KindFromSymbol is the inverse of Kind.Symbol.
func KindFromSymbol(r rune) (Kind, bool) {
	switch {
	case r >= 'A' && r < 'A'+MaxBaseKinds:
		return Kind(r - 'A'), true
	case r == '*':
		return KindBomb, true
	case r == '^':
		return KindRocket, true
	case r == '@':
		return KindRainbow, true
	case r == '.':
		return KindEmpty, true
	default:
		return KindNone, false
	}
}
