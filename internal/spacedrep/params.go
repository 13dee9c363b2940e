package spacedrep

import (
	"time"

	"github.com/KyryloOleynik/wordvault/internal/mastery"
)

// Params holds the tunable constants of the scheduling algorithm. Stability
// is measured in days; difficulty lives on a 1-10 scale where higher means
// harder.
type Params struct {
	// InitialStability seeds stability from the first grade, indexed by
	// grade-1 (Again, Hard, Good, Easy).
	InitialStability [4]float64

	// DifficultyDelta is the per-grade difficulty adjustment, indexed by
	// grade-1. Positive values make the item harder.
	DifficultyDelta [4]float64

	// NeutralDifficulty anchors both the first-review difficulty and the
	// mean-reversion target of later updates.
	NeutralDifficulty float64

	// InitialDifficultySlope scales how far the first grade moves difficulty
	// away from neutral.
	InitialDifficultySlope float64

	// ReversionWeight is the fraction of each difficulty update pulled back
	// toward NeutralDifficulty, keeping difficulty from diverging.
	ReversionWeight float64

	// GrowthScale, DifficultyPower, StabilityPower and RetrievabilityScale
	// shape the stability growth after a successful review:
	//
	//	S' = S * (1 + GrowthScale * D^-DifficultyPower * S^-StabilityPower *
	//	     (e^(RetrievabilityScale*(1-R)) - 1))
	GrowthScale         float64
	DifficultyPower     float64
	StabilityPower      float64
	RetrievabilityScale float64

	// DesiredRetention is the recall probability an on-schedule review is
	// aimed at. Retrievability decays toward it as a review slips late.
	DesiredRetention float64

	// LapseFactor multiplies stability after a forgotten item (grade Again).
	LapseFactor float64

	// MinStability is the floor stability can never drop below, so repeated
	// lapses converge instead of collapsing to zero.
	MinStability float64

	// MaturityDays is the stability at which an item counts as known.
	MaturityDays float64

	// MinInterval is the hard floor on any computed review interval.
	MinInterval time.Duration

	// JitterPct spreads intervals by a uniform ±fraction so words added
	// together do not all come due in the same minute. Zero disables jitter.
	JitterPct float64
}

// DefaultParams provides the stock tuning.
func DefaultParams() Params {
	return Params{
		InitialStability:       [4]float64{0.5, 1.2, 2.5, 4.0},
		DifficultyDelta:        [4]float64{1.2, 0.6, -0.1, -0.7},
		NeutralDifficulty:      5.0,
		InitialDifficultySlope: 1.1,
		ReversionWeight:        0.1,
		GrowthScale:            3.0,
		DifficultyPower:        0.8,
		StabilityPower:         0.2,
		RetrievabilityScale:    2.0,
		DesiredRetention:       0.9,
		LapseFactor:            0.5,
		MinStability:           0.5,
		MaturityDays:           mastery.DefaultMaturityDays,
		MinInterval:            10 * time.Minute,
		JitterPct:              0.05,
	}
}
