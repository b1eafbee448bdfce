package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var (
	flagGames    int
	flagStrategy string
	flagVariant  string
	flagMaxSwaps int
	flagSave     bool
	flagQuiet    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play headless games with the autoplayer",
	Long: `Play games without a terminal, always taking a legal swap, and print a
summary of each game. Game i uses seed --seed+i, so runs are reproducible.

Strategies:
  first   - The swap the hint would suggest
  random  - Any legal swap

Examples:
  match3 simulate --games 100
  match3 simulate --strategy random --difficulty hard --seed 7
  match3 simulate --variant match3_endless --max-swaps 200 --save`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagGames, "games", 10, "Number of games to play")
	simulateCmd.Flags().StringVar(&flagStrategy, "strategy", "first", "Swap strategy: first or random")
	simulateCmd.Flags().StringVar(&flagVariant, "variant", string(match3.VariantClassic), "Variant to play")
	simulateCmd.Flags().IntVar(&flagMaxSwaps, "max-swaps", 500, "Swap limit for games without a turn limit")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Record results in the scores database")
	simulateCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Print only the summary")
}

func runSimulate(_ *cobra.Command, _ []string) error {
	strategy, err := match3.ParseStrategy(flagStrategy)
	if err != nil {
		return err
	}
	variant := match3.Variant(flagVariant)
	if variant != match3.VariantClassic && variant != match3.VariantEndless {
		return fmt.Errorf("unknown variant %q", flagVariant)
	}
	if flagGames <= 0 {
		return fmt.Errorf("--games must be positive, got %d", flagGames)
	}

	cfg, err := engineConfig(variant)
	if err != nil {
		return err
	}
	engineCfg := cfg.Engine()
	engineCfg.HintAfter = 0

	var store *storage.Store
	if flagSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if !flagQuiet {
		fmt.Printf("  %-20s  %-9s  %-8s  %-5s  %-8s  %s\n", "Seed", "Outcome", "Score", "Turns", "Cascades", "Shuffles")
	}
	var wins, total, best int
	start := time.Now()
	for i := range flagGames {
		res, err := match3.Autoplay(match3.AutoplayOptions{
			Variant:  variant,
			Config:   engineCfg,
			Seed:     seed + int64(i),
			Strategy: strategy,
			MaxSwaps: flagMaxSwaps,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		if res.Outcome == storage.OutcomeWon {
			wins++
		}
		total += res.Score
		best = max(best, res.Score)

		if !flagQuiet {
			fmt.Printf("  %-20d  %-9s  %-8d  %-5d  %-8d  %d\n",
				res.Seed, res.Outcome, res.Score, res.TurnsUsed, res.Cascades, res.Shuffles)
		}
		if store != nil {
			if _, err := store.SaveGameResult(res); err != nil {
				logger.Warn("could not save result", "seed", res.Seed, "err", err)
			}
		}
	}

	fmt.Println()
	fmt.Printf("Games: %d  Wins: %d (%.0f%%)  Best: %d  Average: %.0f  Time: %s\n",
		flagGames, wins, float64(wins)*100/float64(flagGames), best,
		float64(total)/float64(flagGames), time.Since(start).Round(time.Millisecond))
	return nil
}
