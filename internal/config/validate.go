package config

import (
	"errors"
	"fmt"
)

// Validate checks that a balance document is playable.
// All problems are reported together, each wrapped with ErrInvalidBalance.
func (b Balance) Validate() error {
	var errs []error

	s := b.Scoring
	if s.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("%w: scoring.tick_ms must be positive", ErrInvalidBalance))
	}
	if s.BasePoints < 0 || s.ComboBonus < 0 {
		errs = append(errs, fmt.Errorf("%w: scoring points must not be negative", ErrInvalidBalance))
	}
	if s.FeverMultiplier < 1 {
		errs = append(errs, fmt.Errorf("%w: scoring.fever_multiplier must be at least 1", ErrInvalidBalance))
	}
	if s.FeverGain < 0 || s.FeverDecay < 0 {
		errs = append(errs, fmt.Errorf("%w: fever gain and decay must not be negative", ErrInvalidBalance))
	}
	if s.AccelDivisor <= 0 {
		errs = append(errs, fmt.Errorf("%w: scoring.accel_divisor must be positive", ErrInvalidBalance))
	}
	d := s.ShiftDelays
	if d.RejectMS < 0 || d.SuccessMS < 0 || d.FailMS < 0 {
		errs = append(errs, fmt.Errorf("%w: shift delays must not be negative", ErrInvalidBalance))
	}

	for _, l := range Levels() {
		if err := b.Tuning(l).validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: levels.%s: %v", ErrInvalidBalance, l.Key(), err))
		}
	}

	return errors.Join(errs...)
}

func (t Tuning) validate() error {
	switch {
	case t.DecayRate < 0:
		return errors.New("decay_rate must not be negative")
	case t.RecoverOnSuccess < 0, t.RecoverOnWildcard < 0:
		return errors.New("recover values must not be negative")
	case t.PenaltyOnFail < 0:
		return errors.New("penalty_on_fail must not be negative")
	case t.Spawn.Approve < 0, t.Spawn.Reject < 0, t.Spawn.Wildcard < 0:
		return errors.New("spawn ratios must not be negative")
	case t.Spawn.Total() <= 0:
		return errors.New("spawn ratios must not all be zero")
	}
	return nil
}
