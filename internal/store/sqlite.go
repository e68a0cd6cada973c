package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sereno-app/sereno/backend/internal/models"
)

// SQLiteStore is the offline/local fallback backend. Records are stored as
// JSON documents in a single table per kind, mirroring the document shape the
// remote store uses so round-trips are field-for-field identical.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the local database file and applies the
// schema. Passing ":memory:" yields a throwaway database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const recordSchema = `CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		doc TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%s_user_recency ON %s (user_id, created_at DESC);`

	for _, kind := range []string{kindAssessments, kindInterventions, kindBiometrics} {
		if _, err := s.db.Exec(fmt.Sprintf(recordSchema, kind, kind, kind)); err != nil {
			return fmt.Errorf("migrate %s: %w", kind, err)
		}
	}

	const prefsSchema = `CREATE TABLE IF NOT EXISTS preferences (
		user_id TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	);`
	if _, err := s.db.Exec(prefsSchema); err != nil {
		return fmt.Errorf("migrate preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStore) insert(ctx context.Context, kind, id, userID string, createdAt time.Time, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	query := fmt.Sprintf("INSERT INTO %s (id, user_id, created_at, doc) VALUES (?, ?, ?, ?)", kind)
	if _, err := s.db.ExecContext(ctx, query, id, userID, createdAt.UTC(), string(body)); err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) WriteAssessment(ctx context.Context, rec *models.AssessmentRecord) error {
	return s.insert(ctx, kindAssessments, rec.ID, rec.UserID, rec.CreatedAt, rec)
}

func (s *SQLiteStore) WriteIntervention(ctx context.Context, rec *models.InterventionRecord) error {
	return s.insert(ctx, kindInterventions, rec.ID, rec.UserID, rec.CreatedAt, rec)
}

func (s *SQLiteStore) WriteBiometric(ctx context.Context, rec *models.BiometricSample) error {
	return s.insert(ctx, kindBiometrics, rec.ID, rec.UserID, rec.CreatedAt, rec)
}

// queryDocs reads docs most-recent-first, decoding each into out's element type
// via the supplied decode callback.
func (s *SQLiteStore) queryDocs(ctx context.Context, kind, userID string, opts QueryOptions, decode func([]byte) error) error {
	query := fmt.Sprintf("SELECT doc FROM %s WHERE user_id = ?", kind)
	args := []any{userID}
	if !opts.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, opts.Since.UTC())
	}
	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
		if err := decode([]byte(body)); err != nil {
			return fmt.Errorf("decode %s: %w", kind, err)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) QueryAssessments(ctx context.Context, userID string, opts QueryOptions) ([]models.AssessmentRecord, error) {
	var recs []models.AssessmentRecord
	err := s.queryDocs(ctx, kindAssessments, userID, opts, func(body []byte) error {
		var rec models.AssessmentRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *SQLiteStore) QueryInterventions(ctx context.Context, userID string, opts QueryOptions) ([]models.InterventionRecord, error) {
	var recs []models.InterventionRecord
	err := s.queryDocs(ctx, kindInterventions, userID, opts, func(body []byte) error {
		var rec models.InterventionRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *SQLiteStore) QueryBiometrics(ctx context.Context, userID string, opts QueryOptions) ([]models.BiometricSample, error) {
	var recs []models.BiometricSample
	err := s.queryDocs(ctx, kindBiometrics, userID, opts, func(body []byte) error {
		var rec models.BiometricSample
		if err := json.Unmarshal(body, &rec); err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *SQLiteStore) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM preferences WHERE user_id = ?", userID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	var prefs models.Preferences
	if err := json.Unmarshal([]byte(body), &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &prefs, nil
}

func (s *SQLiteStore) PutPreferences(ctx context.Context, prefs *models.Preferences) error {
	body, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, doc) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc`,
		prefs.UserID, string(body))
	if err != nil {
		return fmt.Errorf("put preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}
