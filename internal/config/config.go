// Package config provides balance configuration for the inspector game:
// difficulty presets, scoring constants and the layered loader that merges
// embedded defaults, user files, persisted overrides, a remote patch and
// environment variables.
package config

import (
	"fmt"
	"strings"
)

// Level names a difficulty preset.
type Level string

const (
	LevelVeryEasy Level = "very-easy"
	LevelEasy     Level = "easy"
	LevelNormal   Level = "normal"
	LevelHard     Level = "hard"
)

// Levels returns all presets from easiest to hardest.
func Levels() []Level {
	return []Level{LevelVeryEasy, LevelEasy, LevelNormal, LevelHard}
}

// ParseLevel converts a CLI or config value into a Level.
// Empty input selects normal. Underscores are accepted in place of dashes.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelNormal, nil
	}
	s = strings.ReplaceAll(s, "_", "-")
	for _, l := range Levels() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Key returns the config key used for the level (dashes are not valid in
// environment variable names).
func (l Level) Key() string {
	return strings.ReplaceAll(string(l), "-", "_")
}

// Title returns the display name of the level.
func (l Level) Title() string {
	switch l {
	case LevelVeryEasy:
		return "Very Easy"
	case LevelEasy:
		return "Easy"
	case LevelNormal:
		return "Normal"
	case LevelHard:
		return "Hard"
	default:
		return string(l)
	}
}

// SpawnRatios weights the three item types when a new document is sampled.
// Weights are relative; they do not need to sum to one.
type SpawnRatios struct {
	Approve  float64 `koanf:"approve" yaml:"approve"`
	Reject   float64 `koanf:"reject" yaml:"reject"`
	Wildcard float64 `koanf:"wildcard" yaml:"wildcard"`
}

// Total returns the sum of all weights.
func (r SpawnRatios) Total() float64 {
	return r.Approve + r.Reject + r.Wildcard
}

// Tuning holds the per-level balance parameters.
type Tuning struct {
	DecayRate         float64     `koanf:"decay_rate" yaml:"decay_rate"`                   // Timer drain per tick
	RecoverOnSuccess  float64     `koanf:"recover_on_success" yaml:"recover_on_success"`   // Timer refill on a correct stamp
	RecoverOnWildcard float64     `koanf:"recover_on_wildcard" yaml:"recover_on_wildcard"` // Timer refill on an approved wildcard
	PenaltyOnFail     float64     `koanf:"penalty_on_fail" yaml:"penalty_on_fail"`         // Timer loss on a wrong stamp
	Spawn             SpawnRatios `koanf:"spawn" yaml:"spawn"`
}

// LevelTable holds one Tuning per preset.
type LevelTable struct {
	VeryEasy Tuning `koanf:"very_easy" yaml:"very_easy"`
	Easy     Tuning `koanf:"easy" yaml:"easy"`
	Normal   Tuning `koanf:"normal" yaml:"normal"`
	Hard     Tuning `koanf:"hard" yaml:"hard"`
}

// ShiftDelays is how long the queue waits before advancing, per outcome kind.
type ShiftDelays struct {
	RejectMS  int `koanf:"reject_ms" yaml:"reject_ms"`
	SuccessMS int `koanf:"success_ms" yaml:"success_ms"`
	FailMS    int `koanf:"fail_ms" yaml:"fail_ms"`
}

// Scoring holds the constants shared by every level.
type Scoring struct {
	BasePoints      int         `koanf:"base_points" yaml:"base_points"`
	ComboBonus      int         `koanf:"combo_bonus" yaml:"combo_bonus"`
	FeverMultiplier int         `koanf:"fever_multiplier" yaml:"fever_multiplier"`
	FeverGain       float64     `koanf:"fever_gain" yaml:"fever_gain"`
	FeverDecay      float64     `koanf:"fever_decay" yaml:"fever_decay"`
	AccelDivisor    float64     `koanf:"accel_divisor" yaml:"accel_divisor"` // score / divisor is added to the decay
	TickMS          int         `koanf:"tick_ms" yaml:"tick_ms"`
	ShiftDelays     ShiftDelays `koanf:"shift_delays" yaml:"shift_delays"`
}

// Balance is the complete tuning document.
type Balance struct {
	Scoring Scoring    `koanf:"scoring" yaml:"scoring"`
	Levels  LevelTable `koanf:"levels" yaml:"levels"`
}

// Tuning returns the parameters for the given level.
// Unknown levels fall back to normal.
func (b Balance) Tuning(l Level) Tuning {
	switch l {
	case LevelVeryEasy:
		return b.Levels.VeryEasy
	case LevelEasy:
		return b.Levels.Easy
	case LevelHard:
		return b.Levels.Hard
	default:
		return b.Levels.Normal
	}
}

// SetTuning replaces the parameters for the given level.
func (b *Balance) SetTuning(l Level, t Tuning) {
	switch l {
	case LevelVeryEasy:
		b.Levels.VeryEasy = t
	case LevelEasy:
		b.Levels.Easy = t
	case LevelHard:
		b.Levels.Hard = t
	default:
		b.Levels.Normal = t
	}
}
