package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // Keep the configured rules untouched
)

// presetRules is the turn budget and win threshold for each preset.
var presetRules = map[DifficultyPreset]struct {
	turns      int
	scoreToWin int
}{
	DifficultyEasy:   {turns: 30, scoreToWin: 3000},
	DifficultyNormal: {turns: 20, scoreToWin: 4000},
	DifficultyHard:   {turns: 15, scoreToWin: 5000},
}

// Presets lists the presets in display order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset parses a preset name. An empty name means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name)))
	if p == "" {
		return DifficultyNormal, nil
	}
	if _, ok := presetRules[p]; ok || p == DifficultyFixed {
		return p, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", name)
}

// ApplyMatch3Preset modifies the config based on a difficulty preset. Endless
// games (no turn limit and no target) are left alone.
func ApplyMatch3Preset(cfg *Match3Config, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
	if cfg.Rules.Turns == 0 && cfg.Rules.ScoreToWin == 0 {
		return
	}
	rules, ok := presetRules[preset]
	if !ok {
		return
	}
	cfg.Rules.Turns = rules.turns
	cfg.Rules.ScoreToWin = rules.scoreToWin
}
