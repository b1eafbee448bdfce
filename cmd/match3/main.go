// match3 is a terminal match-3 puzzle game with SSH and websocket hosting.
//
// Usage:
//
//	match3 list                 - List available variants
//	match3 play [variant]       - Play a variant (default: match3)
//	match3 menu                 - Start menu to pick variants interactively
//	match3 serve                - Host games over SSH and/or websockets
//	match3 scores [variant]     - Show high scores and statistics
//	match3 simulate             - Play headless games with the autoplayer
//	match3 hint                 - Print the legal moves of a board
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 30)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.arcade/scores.db)
//	--config <path>       - Custom match3.yaml
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn or error (default: info)
//	--log-file <path>     - Append logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/platform/tui"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

// annotationInteractive marks commands that own the terminal. Their logs go
// to --log-file only.
const annotationInteractive = "interactive"

var (
	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Match-3 - Swap tiles, match colors, chain cascades",
	Long: `Match-3 is a terminal tile-matching puzzle. Swap two neighboring tiles
to line up three or more of a color; longer lines leave bombs, rockets and
rainbows behind.

Available commands:
  list      - Show all available variants
  play      - Play a variant directly
  menu      - Interactive variant picker menu
  serve     - Host games over SSH and websockets
  scores    - View high scores and statistics
  simulate  - Run headless games with the autoplayer
  hint      - Print the legal moves of a board

Examples:
  match3 play
  match3 play match3_endless --difficulty easy
  match3 serve --ssh :2222 --ws :8080
  match3 simulate --games 100 --strategy random
  match3 hint --board "AABA/CDCD/ABCD"`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match3 config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(hintCmd)
}

// setup configures logging and the game settings shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	switch {
	case flagLogFile != "":
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return fmt.Errorf("cannot open log file: %w", openErr)
		}
		logFile = f
		w = f
	case cmd.Annotations[annotationInteractive] == "true":
		w = io.Discard
	}
	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "match3",
	})
	match3.SetLogger(logger)
	tui.SetLogger(logger)

	if flagDifficulty != "" {
		if _, err := config.ParsePreset(flagDifficulty); err != nil {
			return err
		}
	}
	match3.SetConfigPath(flagConfig)
	match3.SetDifficultyPreset(flagDifficulty)
	return nil
}

// engineConfig loads the rule set for headless and websocket sessions.
func engineConfig(variant match3.Variant) (config.Match3Config, error) {
	cfg, err := config.LoadMatch3(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("cannot load config: %w", err)
	}
	if flagDifficulty != "" {
		preset, _ := config.ParsePreset(flagDifficulty)
		config.ApplyMatch3Preset(&cfg, preset)
	}
	if variant == match3.VariantEndless {
		cfg.Rules.Turns = 0
		cfg.Rules.ScoreToWin = 0
	}
	return cfg, nil
}
