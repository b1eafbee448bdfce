package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/engine"
)

var (
	flagBoard     string
	flagBoardFile string
	flagAll       bool
)

var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Print the legal moves of a board",
	Long: `Print the swaps that would complete a run on the given board.

The board is given as text rows, top row first, separated by newlines or
'/'. Symbols: A-F base colors, '*' bomb, '^' rocket, '@' rainbow, '.' empty.
Without --board or --file a board is generated from --seed.

Examples:
  match3 hint --board "AABA/CDCD/ABCD"
  match3 hint --file ./board.txt --all
  match3 hint --seed 42`,
	RunE: runHint,
}

func init() {
	hintCmd.Flags().StringVar(&flagBoard, "board", "", "Board rows separated by '/' or newlines")
	hintCmd.Flags().StringVar(&flagBoardFile, "file", "", "Read the board from a file")
	hintCmd.Flags().BoolVar(&flagAll, "all", false, "List every legal move, not only the hint")
}

func runHint(_ *cobra.Command, _ []string) error {
	layout := strings.ReplaceAll(flagBoard, "/", "\n")
	if flagBoardFile != "" {
		data, err := os.ReadFile(flagBoardFile)
		if err != nil {
			return fmt.Errorf("cannot read board: %w", err)
		}
		layout = string(data)
	}

	var grid *engine.Grid
	if strings.TrimSpace(layout) != "" {
		g, err := engine.ParseBoard(layout, engine.MaxBaseKinds, rand.New(rand.NewSource(flagSeed)))
		if err != nil {
			return err
		}
		grid = g
	} else {
		cfg, err := engineConfig("")
		if err != nil {
			return err
		}
		opts := []engine.Option{engine.WithLogger(logger)}
		if flagSeed != 0 {
			opts = append(opts, engine.WithSeed(flagSeed))
		}
		session, err := engine.NewSession(cfg.Engine(), opts...)
		if err != nil {
			return err
		}
		grid = session.Grid()
	}

	fmt.Println(grid.String())
	fmt.Println()

	finder := engine.NewMoveFinder(grid)
	if !flagAll {
		swap, ok := finder.AnyLegalMove()
		if !ok {
			fmt.Println("No legal move: the board is stuck and would be reshuffled.")
			return nil
		}
		fmt.Printf("Hint: %s\n", swap)
		return nil
	}

	moves := finder.LegalMoves()
	if len(moves) == 0 {
		fmt.Println("No legal move: the board is stuck and would be reshuffled.")
		return nil
	}
	fmt.Printf("%d legal moves:\n", len(moves))
	for _, m := range moves {
		fmt.Printf("  %s\n", m)
	}
	return nil
}
