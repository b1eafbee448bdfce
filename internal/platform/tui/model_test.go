package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

// stubGame ends after overAt steps with a fixed score.
type stubGame struct {
	overAt  int
	score   int
	steps   int
	resets  int
	resizes int
	w, h    int
	actions map[core.Action]int
	clicks  []core.Point
}

func newStubGame(overAt, score int) *stubGame {
	return &stubGame{overAt: overAt, score: score, actions: make(map[core.Action]int)}
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.w, g.h = cfg.ScreenW, cfg.ScreenH
}

func (g *stubGame) Resize(w, h int) {
	g.resizes++
	g.w, g.h = w, h
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	for a, on := range in.Actions {
		if on {
			g.actions[a]++
		}
	}
	g.clicks = append(g.clicks, in.Clicks...)
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub board")
}

func (g *stubGame) State() core.GameState {
	over := g.overAt > 0 && g.steps >= g.overAt
	return core.GameState{Score: g.score, GameOver: over}
}

func (g *stubGame) Result() storage.GameResult {
	outcome := storage.OutcomeAbandoned
	if g.State().GameOver {
		outcome = storage.OutcomeLost
	}
	return storage.GameResult{Variant: "stub", Outcome: outcome, Score: g.score, TurnsUsed: g.steps}
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(game *stubGame, store *storage.Store) Model {
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 30, Seed: 1})
	m.Init()
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model, cmd
}

func TestModelForwardsInput(t *testing.T) {
	game := newStubGame(0, 0)
	m := newTestModel(game, nil)

	m, _ = update(t, m, runeKey('h'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 4, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, TickMsg{})

	if game.actions[core.ActionHint] != 1 || game.actions[core.ActionLeft] != 1 {
		t.Errorf("actions = %v, want one hint and one left", game.actions)
	}
	if len(game.clicks) != 1 || game.clicks[0] != (core.Point{X: 4, Y: 2}) {
		t.Errorf("clicks = %v", game.clicks)
	}

	// The frame is cleared after each tick
	update(t, m, TickMsg{})
	if game.actions[core.ActionHint] != 1 {
		t.Errorf("hint repeated on the next tick: %v", game.actions)
	}
}

func TestModelRestartOnlyAfterGameOver(t *testing.T) {
	game := newStubGame(2, 0)
	m := newTestModel(game, nil)

	m, _ = update(t, m, runeKey('r'))
	m, _ = update(t, m, TickMsg{})
	if game.actions[core.ActionRestart] != 0 || game.resets != 1 {
		t.Fatalf("restart accepted mid-game: actions %v, resets %d", game.actions, game.resets)
	}

	m, _ = update(t, m, TickMsg{})
	if !m.gameState.GameOver {
		t.Fatal("stub should be over after two steps")
	}
	m, _ = update(t, m, runeKey('r'))
	m, _ = update(t, m, TickMsg{})
	if game.resets != 2 {
		t.Errorf("resets = %d, want 2", game.resets)
	}
	if m.gameState.GameOver || m.saved {
		t.Errorf("state after restart = %+v, saved %v", m.gameState, m.saved)
	}
}

func TestModelSavesOnceOnGameOver(t *testing.T) {
	store := newTestStore(t)
	game := newStubGame(1, 1200)
	m := newTestModel(game, store)

	for range 5 {
		m, _ = update(t, m, TickMsg{})
	}

	scores, err := store.TopScores("stub", 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 1200 {
		t.Errorf("scores = %+v, want one entry of 1200", scores)
	}
	results, err := store.RecentResults("stub", 10)
	if err != nil {
		t.Fatalf("RecentResults() error = %v", err)
	}
	if len(results) != 1 || results[0].Outcome != storage.OutcomeLost {
		t.Errorf("results = %+v, want one lost game", results)
	}
}

func TestModelRecordsAbandonedGame(t *testing.T) {
	store := newTestStore(t)
	game := newStubGame(0, 300)
	m := newTestModel(game, store)

	m, _ = update(t, m, TickMsg{})
	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil || !m.IsQuitting() {
		t.Fatal("q should quit")
	}

	results, err := store.RecentResults("stub", 10)
	if err != nil {
		t.Fatalf("RecentResults() error = %v", err)
	}
	if len(results) != 1 || results[0].Outcome != storage.OutcomeAbandoned {
		t.Errorf("results = %+v, want one abandoned game", results)
	}
	if scores, _ := store.TopScores("stub", 10); len(scores) != 0 {
		t.Errorf("abandoned game entered the high scores: %+v", scores)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	game := newStubGame(0, 0)
	m := newTestModel(game, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if game.resets != 1 || game.resizes != 1 {
		t.Errorf("resets %d resizes %d, want the game resized in place", game.resets, game.resizes)
	}
	if game.w != 100 || game.h != 29 {
		t.Errorf("game size = %dx%d, want 100x29 above the help line", game.w, game.h)
	}

	m, _ = update(t, m, runeKey('?'))
	if game.h >= 29 {
		t.Errorf("full help should take more rows, game height %d", game.h)
	}
	if m.screen.Height() != game.h {
		t.Errorf("screen height %d, game height %d", m.screen.Height(), game.h)
	}
}

func TestModelBack(t *testing.T) {
	t.Run("mid-game deselects", func(t *testing.T) {
		game := newStubGame(0, 0)
		m := newTestModel(game, nil)
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		m, _ = update(t, m, TickMsg{})
		if m.BackToMenu() || game.actions[core.ActionBack] != 1 {
			t.Errorf("back mid-game: menu %v, actions %v", m.BackToMenu(), game.actions)
		}
	})

	t.Run("standalone quits after game over", func(t *testing.T) {
		m := newTestModel(newStubGame(1, 0), nil)
		m, _ = update(t, m, TickMsg{})
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if !m.BackToMenu() || cmd == nil {
			t.Error("back after game over should end the program")
		}
	})

	t.Run("embedded returns to menu", func(t *testing.T) {
		m := newTestModel(newStubGame(1, 0), nil)
		m.embedded = true
		m, _ = update(t, m, TickMsg{})
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if !m.BackToMenu() || cmd != nil {
			t.Errorf("embedded back: menu %v, cmd %v", m.BackToMenu(), cmd != nil)
		}
	})
}

func TestModelView(t *testing.T) {
	m := newTestModel(newStubGame(0, 0), nil)
	view := ansiCodes.ReplaceAllString(m.View(), "")
	if !strings.HasPrefix(view, "stub board") {
		t.Errorf("view starts with %q", view[:min(len(view), 20)])
	}
	if !strings.Contains(view, "hint") {
		t.Error("help line missing from the view")
	}
}

func TestSessionModelFlow(t *testing.T) {
	m := NewSessionModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30}, "alice")
	if !strings.Contains(m.View(), "Hello alice") {
		t.Error("menu should greet the user")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(SessionModel)
	if m.current != screenScores {
		t.Fatalf("tab should open the scoreboard, view %d", m.current)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(SessionModel)
	if m.current != screenMenu || m.quitting {
		t.Errorf("esc should return to the menu, view %d", m.current)
	}

	next, cmd := m.Update(runeKey('q'))
	m = next.(SessionModel)
	if !m.quitting || cmd == nil {
		t.Error("q in the menu should end the session")
	}
}
