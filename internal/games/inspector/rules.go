package inspector

import (
	"time"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/core"
)

// Outcome is the result of stamping the head document.
type Outcome int

const (
	OutcomeNone         Outcome = iota // nothing resolved yet
	OutcomeSuccessFever                // correct stamp on a form
	OutcomeSuccessBonus                // bread eaten on approve
	OutcomeFail                        // wrong stamp
	OutcomeRejectNone                  // bread waved through on reject
)

// String returns the outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccessFever:
		return "success_fever"
	case OutcomeSuccessBonus:
		return "success_bonus"
	case OutcomeFail:
		return "fail"
	case OutcomeRejectNone:
		return "reject_none"
	default:
		return "none"
	}
}

// Success reports whether the outcome counts toward the combo.
func (o Outcome) Success() bool {
	return o == OutcomeSuccessFever || o == OutcomeSuccessBonus
}

// Resolve applies the stamp truth table.
//
//	status  | approve form  | reject form   | wildcard
//	approve | success-fever | fail          | success-bonus
//	reject  | fail          | success-fever | reject-none
func Resolve(status Status, t ItemType) Outcome {
	switch {
	case t == ItemWildcard && status == StatusApprove:
		return OutcomeSuccessBonus
	case t == ItemWildcard:
		return OutcomeRejectNone
	case (t == ItemApprove) == (status == StatusApprove):
		return OutcomeSuccessFever
	default:
		return OutcomeFail
	}
}

// EventKind identifies an input to Rules.Update.
type EventKind int

const (
	EventStart     EventKind = iota // begin a fresh run
	EventApprove                    // stamp the head document
	EventToggle                     // flip approve/reject
	EventPause                      // pause or resume
	EventTick                       // one scheduler period elapsed
	EventShiftDone                  // the scheduled queue shift is due
)

// Event is an input to Rules.Update.
type Event struct {
	Kind EventKind
}

// EffectKind identifies something the outside world should react to.
type EffectKind int

const (
	EffectFlashCorrect EffectKind = iota
	EffectFlashWrong
	EffectDocApproved // stamped form flies to the paper stack
	EffectDocEaten    // bread eaten
	EffectDocTorn     // wrong stamp tears the document
	EffectDocRejected // bread slides away untouched
	EffectShiftScheduled
	EffectQueueShifted
	EffectStatusChanged
	EffectFeverStarted
	EffectFeverEnded
	EffectPaused
	EffectResumed
	EffectGameOver
)

// Effect is emitted by Rules.Update alongside the new state.
type Effect struct {
	Kind    EffectKind
	Outcome Outcome       // set on resolution effects
	Delay   time.Duration // set on EffectShiftScheduled
}

// Rules holds the balance for one run and the item sampler.
type Rules struct {
	diff    *config.DifficultyManager
	sampler *Sampler
}

// NewRules creates rules for the given balance and level.
func NewRules(b config.Balance, level config.Level, seed int64) *Rules {
	diff := config.NewDifficultyManager(b, level)
	return &Rules{
		diff:    diff,
		sampler: NewSampler(seed, diff.Tuning().Spawn),
	}
}

// Difficulty returns the difficulty manager backing these rules.
func (r *Rules) Difficulty() *config.DifficultyManager {
	return r.diff
}

// Reseed restarts the item sampler.
func (r *Rules) Reseed(seed int64) {
	r.sampler.Reset(seed)
}

// Update applies one event and returns the next state plus its effects.
// Events that are not allowed in the current state return s unchanged.
func (r *Rules) Update(s State, ev Event) (State, []Effect) {
	switch ev.Kind {
	case EventStart:
		return r.start(), nil
	case EventApprove:
		return r.approve(s)
	case EventToggle:
		return r.toggle(s)
	case EventPause:
		return r.pause(s)
	case EventTick:
		return r.tick(s)
	case EventShiftDone:
		return r.shift(s)
	}
	return s, nil
}

func (r *Rules) start() State {
	s := State{
		Time:   GaugeMax,
		Status: StatusApprove,
		Active: true,
	}
	for i := range s.Queue {
		s.Queue[i] = r.sampler.Next()
	}
	return s
}

func (r *Rules) approve(s State) (State, []Effect) {
	if !s.Active || s.Paused || s.Processing {
		return s, nil
	}

	outcome := Resolve(s.Status, s.Head().Type)
	s.Processing = true
	s.LastOutcome = outcome

	scoring := r.diff.Scoring()
	tuning := r.diff.Tuning()
	var effects []Effect

	switch outcome {
	case OutcomeSuccessFever, OutcomeSuccessBonus:
		s.Combo++
		if s.Combo > s.MaxCombo {
			s.MaxCombo = s.Combo
		}
		s.Score += r.diff.Points(s.Combo, s.FeverActive)

		if !s.FeverActive {
			s.Fever = core.ClampF(s.Fever+scoring.FeverGain, GaugeMin, GaugeMax)
			if s.Fever >= GaugeMax {
				s.FeverActive = true
				effects = append(effects, Effect{Kind: EffectFeverStarted})
			}
		}

		doc := EffectDocApproved
		recovery := tuning.RecoverOnSuccess
		if outcome == OutcomeSuccessBonus {
			doc = EffectDocEaten
			recovery = tuning.RecoverOnWildcard
		}
		s.Time = core.ClampF(s.Time+recovery, GaugeMin, GaugeMax)
		effects = append(effects,
			Effect{Kind: EffectFlashCorrect, Outcome: outcome},
			Effect{Kind: doc, Outcome: outcome},
		)

	case OutcomeFail:
		s.Combo = 0
		// The run ends on the next tick, not here.
		s.Time = core.ClampF(s.Time-tuning.PenaltyOnFail, GaugeMin, GaugeMax)
		effects = append(effects,
			Effect{Kind: EffectFlashWrong, Outcome: outcome},
			Effect{Kind: EffectDocTorn, Outcome: outcome},
		)

	case OutcomeRejectNone:
		effects = append(effects, Effect{Kind: EffectDocRejected, Outcome: outcome})
	}

	effects = append(effects, Effect{
		Kind:    EffectShiftScheduled,
		Outcome: outcome,
		Delay:   r.shiftDelay(outcome),
	})
	return s, effects
}

func (r *Rules) shiftDelay(o Outcome) time.Duration {
	d := r.diff.Scoring().ShiftDelays
	ms := d.SuccessMS
	switch o {
	case OutcomeFail:
		ms = d.FailMS
	case OutcomeRejectNone:
		ms = d.RejectMS
	}
	return time.Duration(ms) * time.Millisecond
}

// shift dequeues the head and appends a fresh document. It runs even after
// the game ended so the processing lock is always released.
func (r *Rules) shift(s State) (State, []Effect) {
	if !s.Processing {
		return s, nil
	}
	copy(s.Queue[:], s.Queue[1:])
	s.Queue[QueueLen-1] = r.sampler.Next()
	s.Processing = false
	return s, []Effect{{Kind: EffectQueueShifted}}
}

func (r *Rules) toggle(s State) (State, []Effect) {
	if !s.Active || s.Paused {
		return s, nil
	}
	s.Status = s.Status.Toggle()
	return s, []Effect{{Kind: EffectStatusChanged}}
}

func (r *Rules) pause(s State) (State, []Effect) {
	if !s.Active {
		return s, nil
	}
	s.Paused = !s.Paused
	if s.Paused {
		return s, []Effect{{Kind: EffectPaused}}
	}
	return s, []Effect{{Kind: EffectResumed}}
}

func (r *Rules) tick(s State) (State, []Effect) {
	if !s.Active || s.Paused {
		return s, nil
	}

	var effects []Effect
	s.Ticks++

	if s.FeverActive {
		s.Fever -= r.diff.Scoring().FeverDecay
		if s.Fever <= GaugeMin {
			s.Fever = GaugeMin
			s.FeverActive = false
			effects = append(effects, Effect{Kind: EffectFeverEnded})
		}
	}

	s.Time -= r.diff.TimeDecay(s.Score)
	if s.Time <= GaugeMin {
		s.Time = GaugeMin
		s.Active = false
		s.Over = true
		effects = append(effects, Effect{Kind: EffectGameOver})
	}
	return s, effects
}
