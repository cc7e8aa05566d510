package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/inspector/internal/core"
)

type stubGame struct {
	opts Options
}

func (g *stubGame) ID() string { return "stub" }
func (g *stubGame) Title() string { return "Stub " + string(g.opts.Level) }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return core.GameState{Level: string(g.opts.Level)} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub", func(opts Options) Game { return &stubGame{opts: opts} })

	if !Exists("zz-stub") {
		t.Fatal("Exists() should report the registered game")
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz-stub" {
			found = true
			if !strings.HasPrefix(info.Title, "Stub") {
				t.Errorf("title = %q, expected Stub prefix", info.Title)
			}
		}
	}
	if !found {
		t.Error("List() should include the registered game")
	}

	opts := DefaultOptions()
	opts.Level = "hard"
	g, err := Create("zz-stub", opts)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.State().Level != "hard" {
		t.Errorf("Create() should pass options through, level = %q", g.State().Level)
	}

	if _, err := Create("missing", DefaultOptions()); err == nil {
		t.Error("Create() should fail for an unknown ID")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func(opts Options) Game { return &stubGame{opts: opts} })

	defer func() {
		if recover() == nil {
			t.Error("Register() should panic on duplicate ID")
		}
	}()
	Register("zz-dup", func(opts Options) Game { return &stubGame{opts: opts} })
}
