package service

import (
	"math"
	"testing"

	"github.com/sereno-app/sereno/backend/internal/models"
)

func TestCompositeScore_AllSignals(t *testing.T) {
	policy := DefaultScorePolicy()
	averages := map[models.Signal]float64{
		models.SignalMood:    4,
		models.SignalAnxiety: 2,
		models.SignalStress:  2,
		models.SignalEnergy:  3,
	}

	score, ok := policy.CompositeScore(averages)
	if !ok {
		t.Fatal("expected a score")
	}
	// 0.25*4 - 0.2*2 - 0.2*2 + 0.15*3 + 3 = 3.65
	if math.Abs(score-3.65) > 1e-9 {
		t.Errorf("expected 3.65, got %f", score)
	}
}

func TestCompositeScore_HeartRateAdjustment(t *testing.T) {
	policy := DefaultScorePolicy()
	base := map[models.Signal]float64{models.SignalMood: 3}

	calm := map[models.Signal]float64{models.SignalMood: 3, models.SignalHeartRate: 70}
	elevated := map[models.Signal]float64{models.SignalMood: 3, models.SignalHeartRate: 95}

	baseScore, _ := policy.CompositeScore(base)
	calmScore, _ := policy.CompositeScore(calm)
	elevatedScore, _ := policy.CompositeScore(elevated)

	if math.Abs(calmScore-(baseScore+0.1)) > 1e-9 {
		t.Errorf("expected +0.1 for low heart rate: base %f, calm %f", baseScore, calmScore)
	}
	if math.Abs(elevatedScore-(baseScore-0.1)) > 1e-9 {
		t.Errorf("expected -0.1 for high heart rate: base %f, elevated %f", baseScore, elevatedScore)
	}
}

func TestCompositeScore_NoSignalsNoScore(t *testing.T) {
	policy := DefaultScorePolicy()

	if _, ok := policy.CompositeScore(map[models.Signal]float64{}); ok {
		t.Error("expected no score for empty averages")
	}
	// heart rate alone carries no weight, only an adjustment
	if _, ok := policy.CompositeScore(map[models.Signal]float64{models.SignalHeartRate: 72}); ok {
		t.Error("expected no score from heart rate alone")
	}
}

func TestCompositeScore_Clamped(t *testing.T) {
	policy := DefaultScorePolicy()

	low, ok := policy.CompositeScore(map[models.Signal]float64{
		models.SignalMood:    1,
		models.SignalAnxiety: 5,
		models.SignalStress:  5,
		models.SignalEnergy:  1,
	})
	if !ok {
		t.Fatal("expected a score")
	}
	if low < 1 {
		t.Errorf("expected clamp to 1, got %f", low)
	}

	high, _ := policy.CompositeScore(map[models.Signal]float64{
		models.SignalMood: 5,
	})
	if high > 5 {
		t.Errorf("expected clamp to 5, got %f", high)
	}
}
