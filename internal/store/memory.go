package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sereno-app/sereno/backend/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store used for tests and as a
// last-ditch fallback when no local database file can be opened. Failures can
// be injected to exercise the engine's store-unavailable paths.
type MemoryStore struct {
	mu            sync.RWMutex
	assessments   map[string][]models.AssessmentRecord
	interventions map[string][]models.InterventionRecord
	biometrics    map[string][]models.BiometricSample
	preferences   map[string]models.Preferences

	failWrites error
	failReads  int // number of upcoming reads that fail with failErr
	failErr    error
	writeCalls int
	readCalls  int
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assessments:   map[string][]models.AssessmentRecord{},
		interventions: map[string][]models.InterventionRecord{},
		biometrics:    map[string][]models.BiometricSample{},
		preferences:   map[string]models.Preferences{},
	}
}

// FailWritesWith makes every subsequent write return err. Pass nil to clear.
func (s *MemoryStore) FailWritesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = err
}

// FailNextReads makes the next n reads return err, then recover.
func (s *MemoryStore) FailNextReads(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = n
	s.failErr = err
}

// WriteCalls reports how many writes were attempted (including failed ones).
func (s *MemoryStore) WriteCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writeCalls
}

// ReadCalls reports how many reads were attempted (including failed ones).
func (s *MemoryStore) ReadCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readCalls
}

func (s *MemoryStore) writeGate() error {
	s.writeCalls++
	return s.failWrites
}

func (s *MemoryStore) readGate() error {
	s.readCalls++
	if s.failReads > 0 {
		s.failReads--
		return s.failErr
	}
	return nil
}

func (s *MemoryStore) WriteAssessment(_ context.Context, rec *models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeGate(); err != nil {
		return err
	}
	s.assessments[rec.UserID] = append(s.assessments[rec.UserID], *rec)
	return nil
}

func (s *MemoryStore) WriteIntervention(_ context.Context, rec *models.InterventionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeGate(); err != nil {
		return err
	}
	s.interventions[rec.UserID] = append(s.interventions[rec.UserID], *rec)
	return nil
}

func (s *MemoryStore) WriteBiometric(_ context.Context, rec *models.BiometricSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeGate(); err != nil {
		return err
	}
	s.biometrics[rec.UserID] = append(s.biometrics[rec.UserID], *rec)
	return nil
}

func (s *MemoryStore) QueryAssessments(_ context.Context, userID string, opts QueryOptions) ([]models.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readGate(); err != nil {
		return nil, err
	}
	var out []models.AssessmentRecord
	for _, rec := range s.assessments[userID] {
		if opts.Since.IsZero() || !rec.CreatedAt.Before(opts.Since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStore) QueryInterventions(_ context.Context, userID string, opts QueryOptions) ([]models.InterventionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readGate(); err != nil {
		return nil, err
	}
	var out []models.InterventionRecord
	for _, rec := range s.interventions[userID] {
		if opts.Since.IsZero() || !rec.CreatedAt.Before(opts.Since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStore) QueryBiometrics(_ context.Context, userID string, opts QueryOptions) ([]models.BiometricSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readGate(); err != nil {
		return nil, err
	}
	var out []models.BiometricSample
	for _, rec := range s.biometrics[userID] {
		if opts.Since.IsZero() || !rec.CreatedAt.Before(opts.Since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStore) GetPreferences(_ context.Context, userID string) (*models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readGate(); err != nil {
		return nil, err
	}
	prefs, ok := s.preferences[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &prefs, nil
}

func (s *MemoryStore) PutPreferences(_ context.Context, prefs *models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeGate(); err != nil {
		return err
	}
	s.preferences[prefs.UserID] = *prefs
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
