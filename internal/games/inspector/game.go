// Package inspector implements the document inspection arcade game.
// Documents queue up in front of the inspector, who stamps the head of the
// queue as approved or rejected before the timer drains.
package inspector

import (
	"time"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/core"
	"github.com/vovakirdan/inspector/internal/registry"
)

// GameID is the registry and score storage identifier.
const GameID = "inspector"

// flashDuration is how long the correct/wrong flash stays on screen.
const flashDuration = 300 * time.Millisecond

type flashKind int

const (
	flashNone flashKind = iota
	flashCorrect
	flashWrong
)

// Game adapts Rules to the platform's fixed-frame Game interface.
// Each Step is one platform frame; scheduler ticks and delayed queue shifts
// are derived from accumulated frame time.
type Game struct {
	opts   registry.Options
	rules  *Rules
	state  State
	config core.RuntimeConfig

	frame    time.Duration // duration of one platform frame
	tickAcc  time.Duration // time accumulated toward the next scheduler tick
	shiftDue time.Duration // remaining delay of the pending queue shift
	pending  bool          // a queue shift is scheduled
	fresh    bool          // shift and flash timers were started by this frame's input

	flash     flashKind
	flashLeft time.Duration
	stamps    int // documents stamped this run, drives the paper stack
}

// New creates a game with the given options.
func New(opts registry.Options) *Game {
	if opts.Level == "" {
		opts.Level = config.LevelNormal
	}
	return &Game{opts: opts}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Inspector"
}

// Level returns the difficulty the game is played at.
func (g *Game) Level() config.Level {
	return g.opts.Level
}

// Reset starts a fresh run.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.config = cfg
	rate := cfg.TickRate
	if rate <= 0 {
		rate = core.DefaultConfig().TickRate
	}
	g.frame = time.Second / time.Duration(rate)

	if g.rules == nil {
		g.rules = NewRules(g.opts.Balance, g.opts.Level, cfg.Seed)
	} else {
		g.rules.Reseed(cfg.Seed)
	}

	g.tickAcc = 0
	g.shiftDue = 0
	g.pending = false
	g.fresh = false
	g.flash = flashNone
	g.flashLeft = 0
	g.stamps = 0

	g.apply(Event{Kind: EventStart})
	if g.opts.Observer != nil {
		g.opts.Observer.RunStarted(string(g.opts.Level))
	}
}

// Step processes this frame's input, then advances timers by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	for _, a := range in.Actions() {
		switch a {
		case core.ActionApprove:
			g.apply(Event{Kind: EventApprove})
		case core.ActionToggle:
			g.apply(Event{Kind: EventToggle})
		case core.ActionPause:
			g.apply(Event{Kind: EventPause})
		}
	}

	g.advance(g.frame)
	return core.StepResult{State: g.State()}
}

// advance moves the shift timer, the flash and the scheduler forward by dt.
// The shift timer keeps running while paused; scheduler ticks do not.
// Timers started during this frame begin counting on the next one.
func (g *Game) advance(dt time.Duration) {
	if g.fresh {
		g.fresh = false
	} else {
		g.advanceTimers(dt)
	}

	if !g.state.Active || g.state.Paused {
		return
	}

	interval := g.rules.Difficulty().TickInterval()
	if interval <= 0 {
		return
	}
	g.tickAcc += dt
	for g.tickAcc >= interval && g.state.Active {
		g.tickAcc -= interval
		g.apply(Event{Kind: EventTick})
	}
}

func (g *Game) advanceTimers(dt time.Duration) {
	if g.flashLeft > 0 {
		g.flashLeft -= dt
		if g.flashLeft <= 0 {
			g.flash = flashNone
		}
	}

	if g.pending {
		g.shiftDue -= dt
		if g.shiftDue <= 0 {
			g.pending = false
			g.apply(Event{Kind: EventShiftDone})
		}
	}
}

// apply runs one event through the rules and reacts to its effects.
func (g *Game) apply(ev Event) {
	next, effects := g.rules.Update(g.state, ev)
	g.state = next

	level := string(g.opts.Level)
	obs := g.opts.Observer

	for _, e := range effects {
		switch e.Kind {
		case EffectShiftScheduled:
			g.pending = true
			g.fresh = true
			g.shiftDue = e.Delay
			if obs != nil {
				obs.RoundResolved(level, e.Outcome.String())
			}
		case EffectFlashCorrect:
			g.flash, g.flashLeft, g.fresh = flashCorrect, flashDuration, true
		case EffectFlashWrong:
			g.flash, g.flashLeft, g.fresh = flashWrong, flashDuration, true
		case EffectDocApproved:
			g.stamps++
		case EffectFeverStarted:
			if obs != nil {
				obs.FeverStarted(level)
			}
		case EffectGameOver:
			if obs != nil {
				obs.RunEnded(level, g.state.Score, g.state.MaxCombo)
			}
		}
	}
}

// Snapshot returns the full rules state.
func (g *Game) Snapshot() State {
	return g.state
}

// State returns the current platform-facing state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.state.Score,
		MaxCombo: g.state.MaxCombo,
		Level:    string(g.opts.Level),
		GameOver: g.state.Over,
		Paused:   g.state.Paused,
	}
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func(opts registry.Options) registry.Game {
		return New(opts)
	})
}
