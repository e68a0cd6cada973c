package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sereno-app/sereno/backend/internal/models"
	"github.com/sereno-app/sereno/backend/internal/store"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func expectValidationError(t *testing.T, err error, field string) {
	t.Helper()
	verr, ok := models.AsValidation(err)
	if !ok {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if verr.Field != field {
		t.Errorf("expected validation error on %q, got %q (%s)", field, verr.Field, verr.Reason)
	}
}

func TestSubmitAssessment_Valid(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewIngestService(mem, fixedClock)

	rec, err := svc.SubmitAssessment(ctx, "user-1", &models.SubmitAssessmentRequest{
		Score:        4,
		Context:      "evening",
		RawResponses: map[string]float64{"anxiety": 2, "energy": 3},
	})
	if err != nil {
		t.Fatalf("SubmitAssessment failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected a generated record ID")
	}
	if !rec.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected engine-assigned timestamp %v, got %v", fixedNow, rec.CreatedAt)
	}

	stored, err := mem.QueryAssessments(ctx, "user-1", store.QueryOptions{})
	if err != nil {
		t.Fatalf("QueryAssessments failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored assessment, got %d", len(stored))
	}
}

func TestSubmitAssessment_ScoreOutOfRange(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewIngestService(mem, fixedClock)

	for _, score := range []float64{0, 6, -1, 5.5} {
		_, err := svc.SubmitAssessment(ctx, "user-1", &models.SubmitAssessmentRequest{Score: score})
		expectValidationError(t, err, "score")
	}
	if mem.WriteCalls() != 0 {
		t.Errorf("expected no writes for rejected submissions, got %d", mem.WriteCalls())
	}
}

func TestSubmitAssessment_NoIdentity(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestService(store.NewMemoryStore(), fixedClock)

	_, err := svc.SubmitAssessment(ctx, "", &models.SubmitAssessmentRequest{Score: 3})
	if !errors.Is(err, models.ErrAuthRequired) {
		t.Errorf("expected ErrAuthRequired, got %v", err)
	}
}

func TestSubmitIntervention_Valid(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewIngestService(mem, fixedClock)

	effectiveness := 4.0
	rec, err := svc.SubmitIntervention(ctx, "user-1", &models.SubmitInterventionRequest{
		Tool:            "breathing",
		DurationSeconds: 180,
		Effectiveness:   &effectiveness,
	})
	if err != nil {
		t.Fatalf("SubmitIntervention failed: %v", err)
	}
	if rec.Tool != models.ToolBreathing {
		t.Errorf("expected breathing tool, got %s", rec.Tool)
	}
	if !rec.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected engine-assigned timestamp, got %v", rec.CreatedAt)
	}
}

func TestSubmitIntervention_UnknownTool(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestService(store.NewMemoryStore(), fixedClock)

	_, err := svc.SubmitIntervention(ctx, "user-1", &models.SubmitInterventionRequest{
		Tool: "hypnosis",
	})
	expectValidationError(t, err, "tool")
}

func TestSubmitIntervention_NegativeDuration(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestService(store.NewMemoryStore(), fixedClock)

	_, err := svc.SubmitIntervention(ctx, "user-1", &models.SubmitInterventionRequest{
		Tool:            "breathing",
		DurationSeconds: -1,
	})
	expectValidationError(t, err, "duration")
}

func TestSubmitIntervention_EffectivenessOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestService(store.NewMemoryStore(), fixedClock)

	effectiveness := 6.0
	_, err := svc.SubmitIntervention(ctx, "user-1", &models.SubmitInterventionRequest{
		Tool:            "breathing",
		DurationSeconds: 60,
		Effectiveness:   &effectiveness,
	})
	expectValidationError(t, err, "effectiveness")
}

func TestSubmitBiometric_Valid(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewIngestService(mem, fixedClock)

	rec, err := svc.SubmitBiometric(ctx, "user-1", &models.SubmitBiometricRequest{
		Source:  "camera_ppg",
		Payload: map[string]float64{"heartRate": 72, "stressIndex": 0.3},
	})
	if err != nil {
		t.Fatalf("SubmitBiometric failed: %v", err)
	}
	if rec.Source != models.SourceCameraPPG {
		t.Errorf("expected camera_ppg source, got %s", rec.Source)
	}
}

func TestSubmitBiometric_EmptyPayload(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestService(store.NewMemoryStore(), fixedClock)

	_, err := svc.SubmitBiometric(ctx, "user-1", &models.SubmitBiometricRequest{
		Source:  "wearable",
		Payload: map[string]float64{},
	})
	expectValidationError(t, err, "payload")
}

func TestSubmitBiometric_UnknownSource(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestService(store.NewMemoryStore(), fixedClock)

	_, err := svc.SubmitBiometric(ctx, "user-1", &models.SubmitBiometricRequest{
		Source:  "telepathy",
		Payload: map[string]float64{"heartRate": 70},
	})
	expectValidationError(t, err, "source")
}

func TestSubmit_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	mem.FailWritesWith(errors.New("disk full"))
	// wrap the way production wiring does, so failures carry the sentinel
	svc := NewIngestService(store.NewRetrying(mem), fixedClock)

	_, err := svc.SubmitAssessment(ctx, "user-1", &models.SubmitAssessmentRequest{Score: 3})
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
