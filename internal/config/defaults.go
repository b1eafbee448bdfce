package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the default match-3 configuration: an 8x8 board
// with six colors, 20 turns to reach 4000 points.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: Match3Board{
			Rows:      8,
			Cols:      8,
			BaseKinds: 6,
		},
		Rules: Match3Rules{
			Turns:           20,
			ScoreToWin:      4000,
			PointsPerTile:   100,
			RocketDirection: "down",
			CascadeBonuses:  true,
			MaxCascades:     100,
			MaxShuffles:     20,
		},
		Hint: Match3Hint{
			After: 10 * time.Second,
		},
		Animation: Match3Animation{
			SwapTicks: 6,
			FallTicks: 2,
		},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
		},
	}
}
