package service

import (
	"context"

	"github.com/sereno-app/sereno/backend/internal/models"
)

// IngestService validates and timestamps incoming wellbeing events and writes
// them through the record store.
type IngestService interface {
	SubmitAssessment(ctx context.Context, userID string, req *models.SubmitAssessmentRequest) (*models.AssessmentRecord, error)
	SubmitIntervention(ctx context.Context, userID string, req *models.SubmitInterventionRequest) (*models.InterventionRecord, error)
	SubmitBiometric(ctx context.Context, userID string, req *models.SubmitBiometricRequest) (*models.BiometricSample, error)
}

// AnalyticsService is the aggregation facade external collaborators call for a
// full analytics snapshot or a raw data export.
type AnalyticsService interface {
	GetSnapshot(ctx context.Context, userID string, windowDays int) (*models.AnalyticsSnapshot, error)
	Export(ctx context.Context, userID string) (*models.ExportBundle, error)
}

// PreferencesService manages per-user app settings.
type PreferencesService interface {
	Get(ctx context.Context, userID string) (*models.Preferences, error)
	Update(ctx context.Context, userID string, req *models.UpdatePreferencesRequest) (*models.Preferences, error)
}
