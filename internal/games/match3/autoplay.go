package match3

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/match3-arcade/internal/engine"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

// Strategy picks the next swap for the autoplayer.
type Strategy string

const (
	StrategyFirst  Strategy = "first"  // The hint the engine would show
	StrategyRandom Strategy = "random" // Any legal swap, uniformly
)

// ParseStrategy parses a strategy name. An empty name means first.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", StrategyFirst:
		return StrategyFirst, nil
	case StrategyRandom:
		return StrategyRandom, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want first or random)", name)
}

// AutoplayOptions configures a headless game.
type AutoplayOptions struct {
	Variant  Variant
	Config   engine.Config
	Seed     int64
	Strategy Strategy
	MaxSwaps int // Stops games without a turn limit, 0 means 500
	Logger   *log.Logger
}

// Autoplay plays one game without animation, always taking a legal swap,
// and returns its summary.
func Autoplay(opts AutoplayOptions) (storage.GameResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	maxSwaps := opts.MaxSwaps
	if maxSwaps <= 0 {
		maxSwaps = 500
	}
	if opts.Variant == "" {
		opts.Variant = VariantClassic
	}

	session, err := engine.NewSession(opts.Config,
		engine.WithSeed(opts.Seed),
		engine.WithLogger(logger),
	)
	if err != nil {
		return storage.GameResult{}, fmt.Errorf("autoplay: %w", err)
	}
	picker := rand.New(rand.NewSource(opts.Seed ^ 0x5eed))

	start := time.Now()
	for swaps := 0; swaps < maxSwaps && !session.State().Terminal(); swaps++ {
		swap, ok := pickSwap(session, opts.Strategy, picker)
		if !ok {
			// The engine reshuffles before going idle, so this is a bug
			return storage.GameResult{}, fmt.Errorf("autoplay: no legal swap in state %s", session.State())
		}
		if err := session.RequestSwap(swap.A, swap.B); err != nil {
			return storage.GameResult{}, fmt.Errorf("autoplay: swap %s: %w", swap, err)
		}
	}

	stats := session.Stats()
	outcome := storage.OutcomeAbandoned
	switch {
	case session.Won():
		outcome = storage.OutcomeWon
	case session.Lost():
		outcome = storage.OutcomeLost
	}
	result := storage.GameResult{
		Variant:        string(opts.Variant),
		Seed:           opts.Seed,
		Outcome:        outcome,
		Score:          session.Score(),
		TurnsUsed:      stats.Swaps,
		TilesDestroyed: stats.TilesDestroyed,
		Cascades:       stats.Cascades,
		Shuffles:       stats.Shuffles,
		Duration:       time.Since(start),
	}
	logger.Debug("autoplay finished", "seed", opts.Seed, "outcome", outcome, "score", result.Score, "swaps", stats.Swaps)
	return result, nil
}

func pickSwap(s *engine.Session, strategy Strategy, rng *rand.Rand) (engine.Swap, bool) {
	if strategy == StrategyRandom {
		moves := s.LegalMoves()
		if len(moves) == 0 {
			return engine.Swap{}, false
		}
		return moves[rng.Intn(len(moves))], true
	}
	return s.Hint()
}
