package registry

import (
	"testing"

	"github.com/vovakirdan/match3-arcade/internal/core"
)

type stubGame struct {
	id    string
	score int
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig) { g.score = 0 }
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{State: g.State()} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return core.GameState{Score: g.score} }

type describedGame struct{ stubGame }

func (describedGame) Description() string { return "has a description" }

func TestRegisterAndCreate(t *testing.T) {
	Register("test_b", func() Game { return &stubGame{id: "test_b"} })
	Register("test_a", func() Game { return &describedGame{stubGame{id: "test_a"}} })

	if !Exists("test_a") || !Exists("test_b") {
		t.Fatal("registered games should exist")
	}
	if Exists("test_missing") {
		t.Error("Exists() = true for an unregistered id")
	}

	g, err := Create("test_b")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "test_b" {
		t.Errorf("ID() = %q, want test_b", g.ID())
	}

	other, _ := Create("test_b")
	if other == g {
		t.Error("Create() should return a fresh instance each time")
	}

	if _, err := Create("test_missing"); err == nil {
		t.Error("Create() of an unknown id should fail")
	}

	info, ok := Info("test_a")
	if !ok {
		t.Fatal("Info(test_a) not found")
	}
	if info.Title != "Stub test_a" || info.Description != "has a description" {
		t.Errorf("Info(test_a) = %+v", info)
	}
	if info, _ := Info("test_b"); info.Description != "" {
		t.Errorf("Info(test_b).Description = %q, want empty", info.Description)
	}

	list := List()
	var ids []string
	for _, gi := range list {
		if gi.ID == "test_a" || gi.ID == "test_b" {
			ids = append(ids, gi.ID)
		}
	}
	if len(ids) != 2 || ids[0] != "test_a" || ids[1] != "test_b" {
		t.Errorf("List() order = %v, want [test_a test_b]", ids)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test_dup", func() Game { return &stubGame{id: "test_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("test_dup", func() Game { return &stubGame{id: "test_dup"} })
}
