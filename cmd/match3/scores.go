package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var (
	flagScoresLimit int
	flagRecent      int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores for a variant",
	Long: `Display the top high scores and play statistics for the specified
variant (default: match3).

Examples:
  match3 scores
  match3 scores match3_endless
  match3 scores --recent 5`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of high scores to show")
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 0, "Also list this many recent games")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := string(match3.VariantClassic)
	if len(args) > 0 {
		gameID = args[0]
	}

	info, ok := registry.Info(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'match3 list' to see available variants.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'match3 play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(gameID); err == nil && stats != nil && stats.Games > 0 {
		fmt.Println()
		fmt.Printf("Games: %d  Wins: %d (%.0f%%)  Best: %d  Average: %.0f\n",
			stats.Games, stats.Wins, stats.WinRate()*100, stats.HighScore, stats.AvgScore)
	}

	if flagRecent <= 0 {
		return
	}
	results, err := store.RecentResults(gameID, flagRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving recent games: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Println("Recent games:")
	fmt.Printf("  %-16s  %-9s  %-8s  %-5s  %s\n", "Date", "Outcome", "Score", "Turns", "Cascades")
	for _, r := range results {
		fmt.Printf("  %-16s  %-9s  %-8d  %-5d  %d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Outcome, r.Score, r.TurnsUsed, r.Cascades)
	}
}
