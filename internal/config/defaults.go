package config

import (
	_ "embed"
)

//go:embed defaults/balance.yaml
var defaultBalanceYAML []byte

// DefaultBalance returns the built-in balance. It mirrors the embedded
// defaults/balance.yaml and is used when the embedded copy cannot be parsed.
func DefaultBalance() Balance {
	return Balance{
		Scoring: Scoring{
			BasePoints:      100,
			ComboBonus:      20,
			FeverMultiplier: 2,
			FeverGain:       10,
			FeverDecay:      0.8,
			AccelDivisor:    150000,
			TickMS:          100,
			ShiftDelays: ShiftDelays{
				RejectMS:  150,
				SuccessMS: 200,
				FailMS:    400,
			},
		},
		Levels: LevelTable{
			VeryEasy: Tuning{
				DecayRate:         0.1,
				RecoverOnSuccess:  4,
				RecoverOnWildcard: 12,
				PenaltyOnFail:     8,
				Spawn:             SpawnRatios{Approve: 40, Reject: 30, Wildcard: 30},
			},
			Easy: Tuning{
				DecayRate:         0.15,
				RecoverOnSuccess:  3.5,
				RecoverOnWildcard: 10,
				PenaltyOnFail:     10,
				Spawn:             SpawnRatios{Approve: 35, Reject: 35, Wildcard: 30},
			},
			Normal: Tuning{
				DecayRate:         0.2,
				RecoverOnSuccess:  3,
				RecoverOnWildcard: 10,
				PenaltyOnFail:     15,
				Spawn:             SpawnRatios{Approve: 1, Reject: 1, Wildcard: 1},
			},
			Hard: Tuning{
				DecayRate:         0.3,
				RecoverOnSuccess:  2,
				RecoverOnWildcard: 6,
				PenaltyOnFail:     20,
				Spawn:             SpawnRatios{Approve: 40, Reject: 40, Wildcard: 20},
			},
		},
	}
}

// DefaultYAML returns the embedded default balance document.
func DefaultYAML() []byte {
	return defaultBalanceYAML
}
