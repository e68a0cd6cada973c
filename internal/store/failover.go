package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sereno-app/sereno/backend/internal/logger"
	"github.com/sereno-app/sereno/backend/internal/models"
)

// Config selects and configures the persistence backend. Mongo is used when a
// URI is configured and reachable; otherwise the local sqlite file serves.
type Config struct {
	Mongo      MongoConfig
	SQLitePath string
}

// Open picks a backend and wraps it with the engine's single-bounded-retry
// policy. Falling back from the remote store to local storage is logged, never
// raised — upstream components cannot tell which backend serves them.
func Open(ctx context.Context, cfg Config, log logger.Logger) (Store, error) {
	if cfg.Mongo.URI != "" {
		mongoStore, err := NewMongoStore(ctx, cfg.Mongo)
		if err == nil {
			log.Info("record store ready", logger.String("backend", "mongo"))
			return newRetryStore(mongoStore), nil
		}
		log.Warn("remote record store unreachable, falling back to local storage",
			logger.Err(err),
		)
	} else {
		log.Warn("remote record store not configured, using local storage")
	}

	localStore, err := OpenSQLiteStore(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open local record store: %w", err)
	}
	log.Info("record store ready",
		logger.String("backend", "sqlite"),
		logger.String("path", cfg.SQLitePath),
	)
	return newRetryStore(localStore), nil
}

// retryStore retries each failed operation exactly once, with no backoff, and
// tags errors that survive the retry as store-unavailable. Anything beyond a
// single retry is the backend driver's concern, not the engine's.
type retryStore struct {
	inner Store
}

func newRetryStore(inner Store) *retryStore {
	return &retryStore{inner: inner}
}

// retriable reports whether an error is worth one more attempt. Missing
// records and canceled contexts are terminal as-is.
func retriable(err error) bool {
	if errors.Is(err, models.ErrNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func (r *retryStore) do(ctx context.Context, op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	if retriable(err) {
		if err = op(); err == nil {
			return nil
		}
	}
	if errors.Is(err, models.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
}

func (r *retryStore) WriteAssessment(ctx context.Context, rec *models.AssessmentRecord) error {
	return r.do(ctx, func() error { return r.inner.WriteAssessment(ctx, rec) })
}

func (r *retryStore) WriteIntervention(ctx context.Context, rec *models.InterventionRecord) error {
	return r.do(ctx, func() error { return r.inner.WriteIntervention(ctx, rec) })
}

func (r *retryStore) WriteBiometric(ctx context.Context, rec *models.BiometricSample) error {
	return r.do(ctx, func() error { return r.inner.WriteBiometric(ctx, rec) })
}

func (r *retryStore) QueryAssessments(ctx context.Context, userID string, opts QueryOptions) ([]models.AssessmentRecord, error) {
	var recs []models.AssessmentRecord
	err := r.do(ctx, func() error {
		var innerErr error
		recs, innerErr = r.inner.QueryAssessments(ctx, userID, opts)
		return innerErr
	})
	return recs, err
}

func (r *retryStore) QueryInterventions(ctx context.Context, userID string, opts QueryOptions) ([]models.InterventionRecord, error) {
	var recs []models.InterventionRecord
	err := r.do(ctx, func() error {
		var innerErr error
		recs, innerErr = r.inner.QueryInterventions(ctx, userID, opts)
		return innerErr
	})
	return recs, err
}

func (r *retryStore) QueryBiometrics(ctx context.Context, userID string, opts QueryOptions) ([]models.BiometricSample, error) {
	var recs []models.BiometricSample
	err := r.do(ctx, func() error {
		var innerErr error
		recs, innerErr = r.inner.QueryBiometrics(ctx, userID, opts)
		return innerErr
	})
	return recs, err
}

func (r *retryStore) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	var prefs *models.Preferences
	err := r.do(ctx, func() error {
		var innerErr error
		prefs, innerErr = r.inner.GetPreferences(ctx, userID)
		return innerErr
	})
	return prefs, err
}

func (r *retryStore) PutPreferences(ctx context.Context, prefs *models.Preferences) error {
	return r.do(ctx, func() error { return r.inner.PutPreferences(ctx, prefs) })
}

func (r *retryStore) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

func (r *retryStore) Close(ctx context.Context) error {
	return r.inner.Close(ctx)
}

// NewRetrying exposes the retry wrapper for callers that assemble a backend
// themselves (tests, embedders that bring their own Store).
func NewRetrying(inner Store) Store {
	return newRetryStore(inner)
}
