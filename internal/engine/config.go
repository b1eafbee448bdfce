package engine

import (
	"fmt"
	"time"
)

// Board size limits.
const (
	MinRows = 3
	MinCols = 3
	MaxRows = 9
	MaxCols = 18
)

// RocketDirection selects which part of its column a rocket clears.
type RocketDirection string

const (
	RocketDown   RocketDirection = "down"   // From the rocket to the bottom edge
	RocketUp     RocketDirection = "up"     // From the rocket to the top edge
	RocketColumn RocketDirection = "column" // The whole column
)

// Config holds the constants of one game session.
type Config struct {
	Rows      int
	Cols      int
	BaseKinds int

	TurnsPerGame  int // 0 disables the turn limit
	ScoreToWin    int // 0 disables the win threshold
	PointsPerTile int

	HintAfter time.Duration // 0 disables hints

	RocketDirection RocketDirection
	CascadeBonuses  bool // Classify runs formed by falling tiles too
	MaxCascades     int  // Safety cap on cascade passes per swap
	MaxShuffles     int  // Reshuffle attempts before the board is regenerated
}

// DefaultConfig returns the classic 8x8 game: 20 turns to reach 4000 points.
func DefaultConfig() Config {
	return Config{
		Rows:            8,
		Cols:            8,
		BaseKinds:       MaxBaseKinds,
		TurnsPerGame:    20,
		ScoreToWin:      4000,
		PointsPerTile:   100,
		HintAfter:       10 * time.Second,
		RocketDirection: RocketDown,
		CascadeBonuses:  true,
		MaxCascades:     100,
		MaxShuffles:     20,
	}
}

// Validate checks the configuration and returns a *ConfigError for the first
// value that is out of range.
func (c Config) Validate() error {
	switch {
	case c.Rows < MinRows || c.Rows > MaxRows:
		return &ConfigError{Field: "rows", Reason: fmt.Sprintf("%d outside [%d, %d]", c.Rows, MinRows, MaxRows)}
	case c.Cols < MinCols || c.Cols > MaxCols:
		return &ConfigError{Field: "cols", Reason: fmt.Sprintf("%d outside [%d, %d]", c.Cols, MinCols, MaxCols)}
	case c.BaseKinds < 3 || c.BaseKinds > MaxBaseKinds:
		// Generation excludes up to two neighbor kinds, so at least three are needed.
		return &ConfigError{Field: "base_kinds", Reason: fmt.Sprintf("%d outside [3, %d]", c.BaseKinds, MaxBaseKinds)}
	case c.TurnsPerGame < 0:
		return &ConfigError{Field: "turns", Reason: "must not be negative"}
	case c.ScoreToWin < 0:
		return &ConfigError{Field: "score_to_win", Reason: "must not be negative"}
	case c.PointsPerTile <= 0:
		return &ConfigError{Field: "points_per_tile", Reason: "must be positive"}
	case c.HintAfter < 0:
		return &ConfigError{Field: "hint_after", Reason: "must not be negative"}
	case c.MaxCascades <= 0:
		return &ConfigError{Field: "max_cascades", Reason: "must be positive"}
	case c.MaxShuffles <= 0:
		return &ConfigError{Field: "max_shuffles", Reason: "must be positive"}
	}

	switch c.RocketDirection {
	case RocketDown, RocketUp, RocketColumn:
	default:
		return &ConfigError{Field: "rocket_direction", Reason: fmt.Sprintf("unknown value %q", c.RocketDirection)}
	}
	return nil
}
