package config

import "time"

// DifficultyManager answers per-tick balance questions for one level.
type DifficultyManager struct {
	level   Level
	tuning  Tuning
	scoring Scoring
}

// NewDifficultyManager creates a manager for the given level.
func NewDifficultyManager(b Balance, level Level) *DifficultyManager {
	return &DifficultyManager{
		level:   level,
		tuning:  b.Tuning(level),
		scoring: b.Scoring,
	}
}

// Level returns the level this manager was built for.
func (d *DifficultyManager) Level() Level {
	return d.level
}

// Tuning returns the level parameters.
func (d *DifficultyManager) Tuning() Tuning {
	return d.tuning
}

// Scoring returns the shared scoring constants.
func (d *DifficultyManager) Scoring() Scoring {
	return d.scoring
}

// TimeDecay returns how much the timer drains in one tick at the given score.
// The drain grows linearly with the score.
func (d *DifficultyManager) TimeDecay(score int) float64 {
	accel := 0.0
	if d.scoring.AccelDivisor > 0 {
		accel = float64(score) / d.scoring.AccelDivisor
	}
	return d.tuning.DecayRate + accel
}

// TickInterval returns the scheduler period.
func (d *DifficultyManager) TickInterval() time.Duration {
	return time.Duration(d.scoring.TickMS) * time.Millisecond
}

// Points returns the score awarded for a correct stamp at the given combo.
func (d *DifficultyManager) Points(combo int, fever bool) int {
	points := d.scoring.BasePoints + combo*d.scoring.ComboBonus
	if fever {
		points *= d.scoring.FeverMultiplier
	}
	return points
}
