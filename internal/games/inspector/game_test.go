package inspector

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/core"
	"github.com/vovakirdan/inspector/internal/registry"
)

type recordingObserver struct {
	started  []string
	outcomes []string
	fevers   int
	ended    []int
}

func (o *recordingObserver) RunStarted(level string) { o.started = append(o.started, level) }
func (o *recordingObserver) RoundResolved(_, outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}
func (o *recordingObserver) FeverStarted(string) { o.fevers++ }
func (o *recordingObserver) RunEnded(_ string, score, _ int) {
	o.ended = append(o.ended, score)
}

func newTestGame(level config.Level, obs registry.Observer) *Game {
	return New(registry.Options{
		Balance:  config.DefaultBalance(),
		Level:    level,
		Observer: obs,
	})
}

// 10 frames per second makes one frame equal one scheduler tick.
var tenFPS = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 42}

func TestGameRegistered(t *testing.T) {
	if !registry.Exists(GameID) {
		t.Fatal("inspector not registered")
	}
	g, err := registry.Create(GameID, registry.Options{
		Balance: config.DefaultBalance(),
		Level:   config.LevelHard,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Title() != "Inspector" {
		t.Errorf("Unexpected title %q", g.Title())
	}
	g.Reset(tenFPS)
	if got := g.State().Level; got != "hard" {
		t.Errorf("Expected level hard, got %q", got)
	}
}

func TestDefaultLevel(t *testing.T) {
	g := New(registry.Options{Balance: config.DefaultBalance()})
	if g.Level() != config.LevelNormal {
		t.Errorf("Expected normal, got %v", g.Level())
	}
}

func TestFramesToTicks(t *testing.T) {
	tests := []struct {
		name      string
		tickRate  int
		frames    int
		wantTicks int
	}{
		{"one tick per frame", 10, 25, 25},
		{"two frames per tick", 20, 40, 20},
		{"default rate", 0, 30, 9},
		{"thirty fps", 30, 31, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(config.LevelVeryEasy, nil)
			cfg := tenFPS
			cfg.TickRate = tt.tickRate
			g.Reset(cfg)

			in := core.NewInputFrame()
			for i := 0; i < tt.frames; i++ {
				g.Step(in)
			}
			if got := g.Snapshot().Ticks; got != tt.wantTicks {
				t.Errorf("Expected %d ticks, got %d", tt.wantTicks, got)
			}
		})
	}
}

func TestShiftCompletesAfterDelay(t *testing.T) {
	g := newTestGame(config.LevelNormal, nil)
	g.Reset(tenFPS)
	g.state = withHead(g.state, ItemApprove)

	in := core.NewInputFrame()
	in.Set(core.ActionApprove)
	g.Step(in)
	if !g.Snapshot().Processing {
		t.Fatal("Expected processing after approve")
	}

	// A second stamp on the next frame is swallowed by the lock.
	g.Step(in)
	if !g.Snapshot().Processing {
		t.Fatal("Shift completed after 100ms, expected 200ms")
	}

	in.Clear()
	g.Step(in)
	s := g.Snapshot()
	if s.Processing {
		t.Fatal("Expected shift after 200ms")
	}
	if s.Combo != 1 {
		t.Errorf("Expected combo 1, got %d", s.Combo)
	}
}

func TestShiftNeverEarly(t *testing.T) {
	tests := []struct {
		name     string
		tickRate int
		head     ItemType
		status   Status
		delay    time.Duration
	}{
		{"success 10fps", 10, ItemApprove, StatusApprove, 200 * time.Millisecond},
		{"success 30fps", 30, ItemApprove, StatusApprove, 200 * time.Millisecond},
		{"fail 30fps", 30, ItemReject, StatusApprove, 400 * time.Millisecond},
		{"reject-none 30fps", 30, ItemWildcard, StatusReject, 150 * time.Millisecond},
		{"reject-none 60fps", 60, ItemWildcard, StatusReject, 150 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(config.LevelVeryEasy, nil)
			cfg := tenFPS
			cfg.TickRate = tt.tickRate
			g.Reset(cfg)
			g.state = withHead(g.state, tt.head)
			g.state.Status = tt.status

			in := core.NewInputFrame()
			in.Set(core.ActionApprove)
			g.Step(in)
			in.Clear()

			frames := 0
			for g.Snapshot().Processing && frames < 100 {
				g.Step(in)
				frames++
			}

			elapsed := time.Duration(frames) * g.frame
			if elapsed < tt.delay || elapsed >= tt.delay+g.frame {
				t.Errorf("Shift after %v (%d frames), expected within one frame past %v", elapsed, frames, tt.delay)
			}
		})
	}
}

func TestShiftRunsWhilePaused(t *testing.T) {
	g := newTestGame(config.LevelNormal, nil)
	g.Reset(tenFPS)

	in := core.NewInputFrame()
	in.Set(core.ActionApprove)
	in.Set(core.ActionPause)
	g.Step(in)

	s := g.Snapshot()
	if !s.Paused || !s.Processing {
		t.Fatalf("Expected paused and processing, got %+v", s)
	}
	ticks := s.Ticks

	in.Clear()
	for i := 0; i < 10; i++ {
		g.Step(in)
	}
	s = g.Snapshot()
	if s.Processing {
		t.Error("Shift did not complete while paused")
	}
	if s.Ticks != ticks {
		t.Errorf("Ticks advanced while paused: %d -> %d", ticks, s.Ticks)
	}
	if !g.State().Paused {
		t.Error("Platform state not paused")
	}
}

func TestRunToGameOver(t *testing.T) {
	obs := &recordingObserver{}
	g := newTestGame(config.LevelHard, obs)
	g.Reset(tenFPS)

	in := core.NewInputFrame()
	// Hard drains 0.3 per tick, so 100 / 0.3 ticks empties the timer.
	for i := 0; i < 400 && !g.State().GameOver; i++ {
		g.Step(in)
	}

	st := g.State()
	if !st.GameOver {
		t.Fatal("Expected game over")
	}
	if g.Snapshot().Time != 0 {
		t.Errorf("Expected time 0, got %v", g.Snapshot().Time)
	}
	if len(obs.started) != 1 || obs.started[0] != "hard" {
		t.Errorf("Unexpected RunStarted calls: %v", obs.started)
	}
	if len(obs.ended) != 1 {
		t.Errorf("Expected one RunEnded, got %d", len(obs.ended))
	}

	// Restart begins a fresh run.
	g.Reset(tenFPS)
	if g.State().GameOver || g.Snapshot().Time != GaugeMax {
		t.Error("Reset did not start a new run")
	}
	if len(obs.started) != 2 {
		t.Errorf("Expected two RunStarted calls, got %d", len(obs.started))
	}
}

func TestObserverSeesOutcomes(t *testing.T) {
	obs := &recordingObserver{}
	g := newTestGame(config.LevelNormal, obs)
	g.Reset(tenFPS)

	g.state = withHead(g.state, ItemReject)
	in := core.NewInputFrame()
	in.Set(core.ActionApprove)
	g.Step(in)

	if len(obs.outcomes) != 1 || obs.outcomes[0] != "fail" {
		t.Errorf("Unexpected outcomes: %v", obs.outcomes)
	}
	if g.flash != flashWrong {
		t.Error("Expected wrong flash")
	}
}

func TestObserverSeesFever(t *testing.T) {
	obs := &recordingObserver{}
	g := newTestGame(config.LevelNormal, obs)
	g.Reset(tenFPS)

	in := core.NewInputFrame()
	in.Set(core.ActionApprove)
	for i := 0; i < 10; i++ {
		g.state = withHead(g.state, ItemApprove)
		g.Step(in)
		in.Clear()
		g.Step(in)
		g.Step(in)
		in.Set(core.ActionApprove)
	}

	if obs.fevers != 1 {
		t.Errorf("Expected one fever activation, got %d", obs.fevers)
	}
	if !g.Snapshot().FeverActive {
		t.Error("Expected fever active")
	}
}

func TestGameDeterminism(t *testing.T) {
	g1 := newTestGame(config.LevelNormal, nil)
	g2 := newTestGame(config.LevelNormal, nil)
	g1.Reset(tenFPS)
	g2.Reset(tenFPS)

	in := core.NewInputFrame()
	for i := 0; i < 300; i++ {
		in.Clear()
		switch {
		case i%5 == 0:
			in.Set(core.ActionApprove)
		case i%11 == 0:
			in.Set(core.ActionToggle)
		}
		g1.Step(in)
		g2.Step(in)
	}

	if g1.Snapshot() != g2.Snapshot() {
		t.Errorf("Runs diverged:\n%+v\n%+v", g1.Snapshot(), g2.Snapshot())
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(config.LevelEasy, nil)
	g.Reset(tenFPS)
	g.state.Score = 12345

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"INSPECTOR", "Easy", "12,345", "TIME", "APPROVE"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q", want)
		}
	}

	g.state.Over = true
	g.Render(screen)
	if !strings.Contains(screen.String(), "TIME'S UP") {
		t.Error("Expected game over overlay")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(config.LevelNormal, nil)
	g.Reset(tenFPS)

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("Expected too small message")
	}
}
