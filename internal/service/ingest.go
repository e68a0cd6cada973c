package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sereno-app/sereno/backend/internal/logger"
	"github.com/sereno-app/sereno/backend/internal/models"
	"github.com/sereno-app/sereno/backend/internal/store"
)

// score scale bounds shared by assessments and effectiveness ratings
const (
	scaleMin = 1
	scaleMax = 5
)

type ingestService struct {
	store store.Store
	clock func() time.Time
	newID func() string
}

// NewIngestService creates the event ingestion service. The clock is injected
// because record timestamps are engine-assigned and tests need to pin them.
func NewIngestService(st store.Store, clock func() time.Time) IngestService {
	if clock == nil {
		clock = time.Now
	}
	return &ingestService{
		store: st,
		clock: clock,
		newID: func() string { return uuid.New().String() },
	}
}

func (s *ingestService) SubmitAssessment(ctx context.Context, userID string, req *models.SubmitAssessmentRequest) (*models.AssessmentRecord, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}
	if err := validateScale("score", req.Score); err != nil {
		return nil, err
	}
	for key, value := range req.RawResponses {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, models.NewValidationError("raw_responses", fmt.Sprintf("response %q is not a finite number", key))
		}
	}

	rec := &models.AssessmentRecord{
		ID:           s.newID(),
		UserID:       userID,
		CreatedAt:    s.clock().UTC(),
		Score:        req.Score,
		Context:      req.Context,
		RawResponses: req.RawResponses,
	}
	if err := s.store.WriteAssessment(ctx, rec); err != nil {
		return nil, fmt.Errorf("write assessment: %w", err)
	}

	logger.Ctx(ctx).Debug("assessment recorded",
		logger.String("record_id", rec.ID),
		logger.Float64("score", rec.Score),
	)
	return rec, nil
}

func (s *ingestService) SubmitIntervention(ctx context.Context, userID string, req *models.SubmitInterventionRequest) (*models.InterventionRecord, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}
	tool, err := models.ParseTool(req.Tool)
	if err != nil {
		return nil, models.NewValidationError("tool", err.Error())
	}
	if math.IsNaN(req.DurationSeconds) || math.IsInf(req.DurationSeconds, 0) {
		return nil, models.NewValidationError("duration", "must be a finite number")
	}
	if req.DurationSeconds < 0 {
		return nil, models.NewValidationError("duration", "must not be negative")
	}
	if req.Effectiveness != nil {
		if err := validateScale("effectiveness", *req.Effectiveness); err != nil {
			return nil, err
		}
	}

	rec := &models.InterventionRecord{
		ID:              s.newID(),
		UserID:          userID,
		CreatedAt:       s.clock().UTC(),
		Tool:            tool,
		DurationSeconds: req.DurationSeconds,
		Effectiveness:   req.Effectiveness,
	}
	if err := s.store.WriteIntervention(ctx, rec); err != nil {
		return nil, fmt.Errorf("write intervention: %w", err)
	}

	logger.Ctx(ctx).Debug("intervention recorded",
		logger.String("record_id", rec.ID),
		logger.String("tool", string(rec.Tool)),
	)
	return rec, nil
}

func (s *ingestService) SubmitBiometric(ctx context.Context, userID string, req *models.SubmitBiometricRequest) (*models.BiometricSample, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}
	source, err := models.ParseBiometricSource(req.Source)
	if err != nil {
		return nil, models.NewValidationError("source", err.Error())
	}
	if len(req.Payload) == 0 {
		return nil, models.NewValidationError("payload", "must contain at least one signal value")
	}
	for key, value := range req.Payload {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, models.NewValidationError("payload", fmt.Sprintf("signal %q is not a finite number", key))
		}
	}

	rec := &models.BiometricSample{
		ID:        s.newID(),
		UserID:    userID,
		CreatedAt: s.clock().UTC(),
		Source:    source,
		Payload:   req.Payload,
	}
	if err := s.store.WriteBiometric(ctx, rec); err != nil {
		return nil, fmt.Errorf("write biometric: %w", err)
	}

	logger.Ctx(ctx).Debug("biometric sample recorded",
		logger.String("record_id", rec.ID),
		logger.String("source", string(rec.Source)),
	)
	return rec, nil
}

// validateScale rejects values outside the 1-5 self-report scale. Out-of-range
// input is an error, never silently clamped.
func validateScale(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.NewValidationError(field, "must be a finite number")
	}
	if v < scaleMin || v > scaleMax {
		return models.NewValidationError(field, fmt.Sprintf("must be between %d and %d", scaleMin, scaleMax))
	}
	return nil
}
