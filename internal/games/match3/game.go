// Package match3 adapts the match-3 engine to the arcade platform: it maps
// cursor and pointer input to engine selections, animates the engine's motion
// intents tick by tick and renders the board into a core.Screen.
package match3

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/engine"
	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

// Variant selects the rule set.
type Variant string

const (
	VariantClassic Variant = "match3"         // Turn limit and win threshold
	VariantEndless Variant = "match3_endless" // Play until you quit
)

const defaultTickRate = 30

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	if preset == "" {
		difficultyPreset = ""
		return
	}
	p, err := config.ParsePreset(preset)
	if err != nil {
		logger.Warn("ignoring difficulty", "preset", preset, "err", err)
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLogger sets the logger handed to every new engine session.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

func init() {
	registry.Register(string(VariantClassic), func() registry.Game {
		return New()
	})
	registry.Register(string(VariantEndless), func() registry.Game {
		return NewEndless()
	})
}

// Game implements registry.Game for the match-3 board.
type Game struct {
	variant Variant

	// Test hooks: a fixed configuration and a fixture board.
	override *config.Match3Config
	layout   string

	difficulty config.DifficultyPreset // Overrides the package preset when set

	cfg     config.Match3Config
	session *engine.Session
	anim    *animator
	seed    int64

	tick     uint64
	tickRate int
	epoch    time.Time

	cursor engine.Coord
	forced *engine.Swap // Hint requested with the hint key

	screenW  int
	screenH  int
	paused   bool
	tooSmall bool
}

// New creates a classic game: a turn budget to reach the target score.
func New() *Game {
	return &Game{variant: VariantClassic}
}

// NewEndless creates a game without turn limit or target.
func NewEndless() *Game {
	return &Game{variant: VariantEndless}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return string(g.variant)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantEndless {
		return "Match-3 (Endless)"
	}
	return "Match-3"
}

// Description returns a one-line summary for listings.
func (g *Game) Description() string {
	if g.variant == VariantEndless {
		return "Swap tiles forever, no turn limit"
	}
	return "Reach the target score before the turns run out"
}

// SetDifficulty picks the preset for this game only. It takes effect on the
// next Reset.
func (g *Game) SetDifficulty(p config.DifficultyPreset) {
	g.difficulty = p
}

// loadConfig resolves the configuration for the next game.
func (g *Game) loadConfig() config.Match3Config {
	if g.override != nil {
		return *g.override
	}

	cfg, err := config.LoadMatch3(configPath)
	if err != nil {
		logger.Warn("using default config", "path", configPath, "err", err)
		cfg = config.DefaultMatch3Config()
	}
	preset := difficultyPreset
	if g.difficulty != "" {
		preset = g.difficulty
	}
	if preset != "" {
		config.ApplyMatch3Preset(&cfg, preset)
	}
	if g.variant == VariantEndless {
		cfg.Rules.Turns = 0
		cfg.Rules.ScoreToWin = 0
	}
	return cfg
}

// Reset starts a new game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg = g.loadConfig()
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = defaultTickRate
	}
	g.seed = rc.Seed
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	g.tick = 0
	g.epoch = time.Unix(0, 0).UTC()
	g.cursor = engine.At(0, 0)
	g.forced = nil
	g.paused = false

	g.anim = newAnimator(g.cfg.Animation)
	base := []engine.Option{
		engine.WithSeed(g.seed),
		engine.WithLogger(logger.With("variant", g.variant)),
		engine.WithListener(g.anim),
		engine.WithAnimation(),
		engine.WithClock(g.now),
	}
	opts := base
	if g.layout != "" {
		opts = append(base[:len(base):len(base)], engine.WithBoard(g.layout))
	}

	session, err := engine.NewSession(g.cfg.Engine(), opts...)
	if err != nil {
		logger.Error("cannot start session, falling back to defaults", "err", err)
		g.cfg = config.DefaultMatch3Config()
		if session, err = engine.NewSession(g.cfg.Engine(), base...); err != nil {
			panic(err) // The built-in defaults are always valid
		}
	}
	g.session = session
	g.anim.attach(session.Grid())

	g.Resize(rc.ScreenW, rc.ScreenH)
}

// Resize adapts the layout to a new terminal size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	minW, minH := g.minSize()
	g.tooSmall = w < minW || h < minH
}

// now is the simulation clock: it advances with ticks, not wall time, so a
// paused game does not run down the hint timer.
func (g *Game) now() time.Time {
	return g.epoch.Add(time.Duration(g.tick) * time.Second / time.Duration(g.tickRate))
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.session.State().Terminal() {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}
	g.tick++

	if !g.session.State().Terminal() {
		g.handleInput(in)
	}

	g.anim.advance(g.session.MoveDone)
	if g.session.State() != engine.StateIdle {
		g.forced = nil
	}
	g.session.Tick(g.now())

	return core.StepResult{State: g.State()}
}

// handleInput applies one frame of player input.
func (g *Game) handleInput(in core.InputFrame) {
	for _, p := range in.Clicks {
		if c, ok := g.cellAt(p); ok {
			g.cursor = c
			g.selectCell(c)
		}
	}

	rows, cols := g.cfg.Board.Rows, g.cfg.Board.Cols
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row = core.Clamp(g.cursor.Row-1, 0, rows-1)
	case in.Has(core.ActionDown):
		g.cursor.Row = core.Clamp(g.cursor.Row+1, 0, rows-1)
	case in.Has(core.ActionLeft):
		g.cursor.Col = core.Clamp(g.cursor.Col-1, 0, cols-1)
	case in.Has(core.ActionRight):
		g.cursor.Col = core.Clamp(g.cursor.Col+1, 0, cols-1)
	}

	if in.Has(core.ActionConfirm) {
		g.selectCell(g.cursor)
	}
	if in.Has(core.ActionBack) {
		if sel, ok := g.session.Selected(); ok {
			g.selectCell(sel)
		}
	}
	if in.Has(core.ActionHint) {
		if swap, ok := g.session.Hint(); ok {
			g.forced = &swap
		}
	}
}

// selectCell forwards a click to the engine. Clicks during a resolution pass
// are dropped.
func (g *Game) selectCell(c engine.Coord) {
	err := g.session.Select(c)
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrBusy), errors.Is(err, engine.ErrGameOver):
	default:
		logger.Debug("select failed", "at", c, "err", err)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.session.Score(),
		GameOver: g.session.State().Terminal(),
		Won:      g.session.Won(),
		Paused:   g.paused || g.tooSmall,
	}
}

// Session exposes the engine session, for hosts that drive it directly.
func (g *Game) Session() *engine.Session {
	return g.session
}

// Result summarizes the game for storage. A game that is not over yet is
// reported as abandoned.
func (g *Game) Result() storage.GameResult {
	stats := g.session.Stats()
	outcome := storage.OutcomeAbandoned
	switch {
	case g.session.Won():
		outcome = storage.OutcomeWon
	case g.session.Lost():
		outcome = storage.OutcomeLost
	}
	return storage.GameResult{
		Variant:        g.ID(),
		Seed:           g.seed,
		Outcome:        outcome,
		Score:          g.session.Score(),
		TurnsUsed:      stats.Swaps,
		TilesDestroyed: stats.TilesDestroyed,
		Cascades:       stats.Cascades,
		Shuffles:       stats.Shuffles,
		Duration:       g.now().Sub(g.epoch),
	}
}
