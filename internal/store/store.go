package store

import (
	"context"
	"time"

	"github.com/sereno-app/sereno/backend/internal/models"
)

// QueryOptions narrows a per-user record query. Zero values mean "no bound":
// a zero Since reads the full history, a zero Limit reads everything in range.
type QueryOptions struct {
	Since time.Time
	Limit int
}

// Store is the record persistence contract the engine is written against.
// Every call is scoped to a single user; query results come back
// most-recent-first. Implementations must never leak which backend served a
// call — callers cannot branch on remote vs local storage.
type Store interface {
	WriteAssessment(ctx context.Context, rec *models.AssessmentRecord) error
	WriteIntervention(ctx context.Context, rec *models.InterventionRecord) error
	WriteBiometric(ctx context.Context, rec *models.BiometricSample) error

	QueryAssessments(ctx context.Context, userID string, opts QueryOptions) ([]models.AssessmentRecord, error)
	QueryInterventions(ctx context.Context, userID string, opts QueryOptions) ([]models.InterventionRecord, error)
	QueryBiometrics(ctx context.Context, userID string, opts QueryOptions) ([]models.BiometricSample, error)

	GetPreferences(ctx context.Context, userID string) (*models.Preferences, error)
	PutPreferences(ctx context.Context, prefs *models.Preferences) error

	// Ping reports whether the backend is reachable. The failover wrapper uses
	// it once at startup to pick a backend.
	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}

// collection names shared by the mongo and sqlite backends
const (
	kindAssessments   = "assessments"
	kindInterventions = "interventions"
	kindBiometrics    = "biometrics"
	kindPreferences   = "preferences"
)
