// Package config provides YAML-based configuration loading and difficulty
// presets for the match-3 game.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/match3-arcade/internal/engine"
)

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Board      Match3Board      `yaml:"board"`
	Rules      Match3Rules      `yaml:"rules"`
	Hint       Match3Hint       `yaml:"hint"`
	Animation  Match3Animation  `yaml:"animation"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// Match3Board defines the grid shape.
type Match3Board struct {
	Rows      int `yaml:"rows"`
	Cols      int `yaml:"cols"`
	BaseKinds int `yaml:"base_kinds"`
}

// Match3Rules defines scoring, turn and bonus rules.
type Match3Rules struct {
	Turns           int    `yaml:"turns"`        // 0 = unlimited
	ScoreToWin      int    `yaml:"score_to_win"` // 0 = no target
	PointsPerTile   int    `yaml:"points_per_tile"`
	RocketDirection string `yaml:"rocket_direction"` // "down", "up" or "column"
	CascadeBonuses  bool   `yaml:"cascade_bonuses"`
	MaxCascades     int    `yaml:"max_cascades"`
	MaxShuffles     int    `yaml:"max_shuffles"`
}

// Match3Hint defines when a hint is offered.
type Match3Hint struct {
	After time.Duration `yaml:"after"` // 0 disables hints
}

// Match3Animation defines how fast the terminal host animates tile motion.
type Match3Animation struct {
	SwapTicks int `yaml:"swap_ticks"` // Ticks for a swap to complete
	FallTicks int `yaml:"fall_ticks"` // Ticks per row of falling distance
}

// DifficultyConfig selects the preset applied on top of the rules.
type DifficultyConfig struct {
	Preset DifficultyPreset `yaml:"preset"`
}

// Engine converts the configuration into the engine's session config.
func (c Match3Config) Engine() engine.Config {
	return engine.Config{
		Rows:            c.Board.Rows,
		Cols:            c.Board.Cols,
		BaseKinds:       c.Board.BaseKinds,
		TurnsPerGame:    c.Rules.Turns,
		ScoreToWin:      c.Rules.ScoreToWin,
		PointsPerTile:   c.Rules.PointsPerTile,
		HintAfter:       c.Hint.After,
		RocketDirection: engine.RocketDirection(c.Rules.RocketDirection),
		CascadeBonuses:  c.Rules.CascadeBonuses,
		MaxCascades:     c.Rules.MaxCascades,
		MaxShuffles:     c.Rules.MaxShuffles,
	}
}

// Validate checks the configuration, including everything the engine checks.
func (c Match3Config) Validate() error {
	if err := c.Engine().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Animation.SwapTicks < 0 || c.Animation.FallTicks < 0 {
		return fmt.Errorf("config: animation ticks must not be negative")
	}
	if _, err := ParsePreset(string(c.Difficulty.Preset)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
