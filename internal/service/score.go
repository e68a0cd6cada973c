package service

import "github.com/sereno-app/sereno/backend/internal/models"

// ScorePolicy is the explicit, configurable weighting behind the composite
// wellbeing score. It is a heuristic convenience number for display, not a
// validated clinical instrument, which is why every constant lives here in an
// overridable policy instead of being buried in the computation.
type ScorePolicy struct {
	// Weights applies per-signal weights to window averages. Negative weights
	// belong to lower-is-better signals.
	Weights map[models.Signal]float64
	// Baseline shifts the weighted sum onto the 1-5 scale.
	Baseline float64
	// RestingHeartRate is the bpm boundary for the biometric adjustment.
	RestingHeartRate float64
	// HeartRateAdjustment is added when the average heart rate is below
	// RestingHeartRate and subtracted when above.
	HeartRateAdjustment float64
}

// DefaultScorePolicy mirrors the weighting the companion app has historically
// shown users.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		Weights: map[models.Signal]float64{
			models.SignalMood:    0.25,
			models.SignalAnxiety: -0.2,
			models.SignalStress:  -0.2,
			models.SignalEnergy:  0.15,
		},
		Baseline:            3,
		RestingHeartRate:    80,
		HeartRateAdjustment: 0.1,
	}
}

// CompositeScore folds window averages into a single 1-5 number under the
// policy. Returns false when no weighted signal has data, so an empty window
// yields no score instead of a fabricated baseline.
func (p ScorePolicy) CompositeScore(averages map[models.Signal]float64) (float64, bool) {
	score := 0.0
	matched := false
	for signal, weight := range p.Weights {
		if avg, ok := averages[signal]; ok {
			score += weight * avg
			matched = true
		}
	}
	if !matched {
		return 0, false
	}

	if hr, ok := averages[models.SignalHeartRate]; ok {
		if hr < p.RestingHeartRate {
			score += p.HeartRateAdjustment
		} else {
			score -= p.HeartRateAdjustment
		}
	}

	score += p.Baseline
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}
	return score, true
}
