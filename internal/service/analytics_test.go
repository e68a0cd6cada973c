package service

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sereno-app/sereno/backend/internal/models"
	"github.com/sereno-app/sereno/backend/internal/store"
)

// seedScenario loads a user with a recovering week: five daily check-ins with
// rising scores and a single rated breathing session.
func seedScenario(t *testing.T, mem *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()

	scores := []float64{2, 2, 2, 4, 5}
	for i, score := range scores {
		err := mem.WriteAssessment(ctx, &models.AssessmentRecord{
			ID:        "a-" + string(rune('1'+i)),
			UserID:    "user-1",
			CreatedAt: fixedNow.AddDate(0, 0, -(len(scores) - i)),
			Score:     score,
		})
		if err != nil {
			t.Fatalf("seeding assessment: %v", err)
		}
	}

	effectiveness := 4.0
	err := mem.WriteIntervention(ctx, &models.InterventionRecord{
		ID:              "i-1",
		UserID:          "user-1",
		CreatedAt:       fixedNow.AddDate(0, 0, -2),
		Tool:            models.ToolBreathing,
		DurationSeconds: 300,
		Effectiveness:   &effectiveness,
	})
	if err != nil {
		t.Fatalf("seeding intervention: %v", err)
	}
}

func TestGetSnapshot_RecoveringWeek(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	seedScenario(t, mem)
	svc := NewAnalyticsService(mem, DefaultScorePolicy(), fixedClock)

	snap, err := svc.GetSnapshot(ctx, "user-1", 30)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}

	if snap.AssessmentCount != 5 {
		t.Errorf("expected 5 assessments, got %d", snap.AssessmentCount)
	}
	if avg := snap.WeeklyAverages[models.SignalMood]; math.Abs(avg-3.0) > 1e-9 {
		t.Errorf("expected mood average 3.0, got %f", avg)
	}

	mood := snap.Trends[models.SignalMood]
	if mood.Classification != models.TrendImproving {
		t.Errorf("expected improving mood, got %s", mood.Classification)
	}
	if mood.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %f", mood.Confidence)
	}

	// signals with no data still appear, marked insufficient
	for _, signal := range []models.Signal{models.SignalAnxiety, models.SignalStress, models.SignalEnergy} {
		trend, ok := snap.Trends[signal]
		if !ok {
			t.Errorf("expected %s trend present", signal)
			continue
		}
		if trend.Classification != models.TrendInsufficientData {
			t.Errorf("expected %s insufficient_data, got %s", signal, trend.Classification)
		}
	}

	// one intervention is below the engagement threshold
	foundEngagement := false
	for _, flag := range snap.RiskFlags {
		if flag.Type == models.RiskLowEngagement {
			foundEngagement = true
		}
		if flag.Type == models.RiskDecliningMood {
			t.Error("did not expect declining_mood with improving scores")
		}
	}
	if !foundEngagement {
		t.Errorf("expected low_engagement flag, got %+v", snap.RiskFlags)
	}

	if snap.InterventionStats.TotalCount != 1 {
		t.Errorf("expected 1 intervention, got %d", snap.InterventionStats.TotalCount)
	}

	// breathing should surface as the proven technique
	foundTechnique := false
	for _, rec := range snap.Recommendations {
		if rec.Kind == models.RecommendationTechnique {
			foundTechnique = true
			if len(rec.Tools) != 1 || rec.Tools[0] != models.ToolBreathing {
				t.Errorf("expected breathing technique recommendation, got %+v", rec.Tools)
			}
		}
	}
	if !foundTechnique {
		t.Errorf("expected a technique recommendation, got %+v", snap.Recommendations)
	}
	last := snap.Recommendations[len(snap.Recommendations)-1]
	if last.Kind != models.RecommendationGeneral {
		t.Errorf("expected general recommendation last, got %s", last.Kind)
	}

	if snap.OverallScore == nil {
		t.Fatal("expected an overall score")
	}
	// mood-only composite: 0.25*3 + 3
	if math.Abs(*snap.OverallScore-3.75) > 1e-9 {
		t.Errorf("expected overall score 3.75, got %f", *snap.OverallScore)
	}
}

func TestGetSnapshot_Idempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	seedScenario(t, mem)
	svc := NewAnalyticsService(mem, DefaultScorePolicy(), fixedClock)

	first, err := svc.GetSnapshot(ctx, "user-1", 30)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	second, err := svc.GetSnapshot(ctx, "user-1", 30)
	if err != nil {
		t.Fatalf("second GetSnapshot failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical snapshots with a pinned clock:\n%+v\n%+v", first, second)
	}
}

func TestGetSnapshot_NoRecords(t *testing.T) {
	ctx := context.Background()
	svc := NewAnalyticsService(store.NewMemoryStore(), DefaultScorePolicy(), fixedClock)

	snap, err := svc.GetSnapshot(ctx, "user-1", 30)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}

	if snap.AssessmentCount != 0 {
		t.Errorf("expected 0 assessments, got %d", snap.AssessmentCount)
	}
	if len(snap.RiskFlags) != 0 {
		t.Errorf("expected no risk flags with zero history, got %+v", snap.RiskFlags)
	}
	if snap.OverallScore != nil {
		t.Errorf("expected no overall score, got %f", *snap.OverallScore)
	}
	if len(snap.Recommendations) != 1 || snap.Recommendations[0].Kind != models.RecommendationGeneral {
		t.Errorf("expected only the general recommendation, got %+v", snap.Recommendations)
	}
	for _, signal := range []models.Signal{models.SignalMood, models.SignalAnxiety, models.SignalStress, models.SignalEnergy} {
		if snap.Trends[signal].Classification != models.TrendInsufficientData {
			t.Errorf("expected %s insufficient_data, got %s", signal, snap.Trends[signal].Classification)
		}
	}
}

func TestGetSnapshot_AnonymousUser(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	seedScenario(t, mem)
	svc := NewAnalyticsService(mem, DefaultScorePolicy(), fixedClock)

	snap, err := svc.GetSnapshot(ctx, "", 30)
	if err != nil {
		t.Fatalf("expected empty snapshot without identity, got error: %v", err)
	}
	if snap.AssessmentCount != 0 {
		t.Errorf("expected no data for anonymous caller, got %d assessments", snap.AssessmentCount)
	}
	if mem.ReadCalls() != 0 {
		t.Errorf("expected no store reads for anonymous caller, got %d", mem.ReadCalls())
	}
}

func TestGetSnapshot_InvalidWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewAnalyticsService(store.NewMemoryStore(), DefaultScorePolicy(), fixedClock)

	for _, days := range []int{0, -7} {
		_, err := svc.GetSnapshot(ctx, "user-1", days)
		expectValidationError(t, err, "window_days")
	}
}

func TestGetSnapshot_ReadFailureFailsWhole(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	seedScenario(t, mem)
	mem.FailNextReads(10, errors.New("connection reset"))
	svc := NewAnalyticsService(store.NewRetrying(mem), DefaultScorePolicy(), fixedClock)

	snap, err := svc.GetSnapshot(ctx, "user-1", 30)
	if err == nil {
		t.Fatalf("expected an error, got snapshot %+v", snap)
	}
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestGetSnapshot_BiometricSignals(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	seedScenario(t, mem)
	for i := 0; i < 3; i++ {
		err := mem.WriteBiometric(ctx, &models.BiometricSample{
			ID:        "b-" + string(rune('1'+i)),
			UserID:    "user-1",
			CreatedAt: fixedNow.AddDate(0, 0, -(3 - i)),
			Source:    models.SourceCameraPPG,
			Payload:   map[string]float64{"heartRate": 95},
		})
		if err != nil {
			t.Fatalf("seeding biometric: %v", err)
		}
	}
	svc := NewAnalyticsService(mem, DefaultScorePolicy(), fixedClock)

	snap, err := svc.GetSnapshot(ctx, "user-1", 30)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}

	if avg := snap.WeeklyAverages[models.SignalHeartRate]; avg != 95 {
		t.Errorf("expected heart rate average 95, got %f", avg)
	}
	found := false
	for _, flag := range snap.RiskFlags {
		if flag.Type == models.RiskElevatedHeartRate {
			found = true
		}
	}
	if !found {
		t.Errorf("expected elevated_heart_rate flag, got %+v", snap.RiskFlags)
	}
}

func TestGetSnapshot_ReadOnly(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	seedScenario(t, mem)
	writesAfterSeed := mem.WriteCalls()
	svc := NewAnalyticsService(mem, DefaultScorePolicy(), fixedClock)

	if _, err := svc.GetSnapshot(ctx, "user-1", 30); err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if mem.WriteCalls() != writesAfterSeed {
		t.Errorf("snapshot must not write: %d writes before, %d after", writesAfterSeed, mem.WriteCalls())
	}
}

func TestExport_IncludesEverything(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	seedScenario(t, mem)
	// an old record outside any analysis window must still be exported
	err := mem.WriteAssessment(ctx, &models.AssessmentRecord{
		ID:        "a-old",
		UserID:    "user-1",
		CreatedAt: fixedNow.AddDate(-1, 0, 0),
		Score:     1,
	})
	if err != nil {
		t.Fatalf("seeding old assessment: %v", err)
	}
	svc := NewAnalyticsService(mem, DefaultScorePolicy(), fixedClock)

	bundle, err := svc.Export(ctx, "user-1")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(bundle.Assessments) != 6 {
		t.Errorf("expected 6 assessments in export, got %d", len(bundle.Assessments))
	}
	if len(bundle.Interventions) != 1 {
		t.Errorf("expected 1 intervention in export, got %d", len(bundle.Interventions))
	}
	if bundle.Preferences != nil {
		t.Errorf("expected nil preferences when none stored, got %+v", bundle.Preferences)
	}
	if bundle.Version == "" {
		t.Error("expected a version tag")
	}
	if !bundle.ExportedAt.Equal(fixedNow) {
		t.Errorf("expected export timestamp %v, got %v", fixedNow, bundle.ExportedAt)
	}
}

func TestExport_NoIdentity(t *testing.T) {
	ctx := context.Background()
	svc := NewAnalyticsService(store.NewMemoryStore(), DefaultScorePolicy(), fixedClock)

	_, err := svc.Export(ctx, "")
	if !errors.Is(err, models.ErrAuthRequired) {
		t.Errorf("expected ErrAuthRequired, got %v", err)
	}
}
