package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sereno-app/sereno/backend/internal/models"
)

var baseTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func seedAssessments(t *testing.T, s Store, userID string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		err := s.WriteAssessment(ctx, &models.AssessmentRecord{
			ID:        "a-" + string(rune('a'+i)),
			UserID:    userID,
			CreatedAt: baseTime.AddDate(0, 0, -i),
			Score:     3,
		})
		if err != nil {
			t.Fatalf("seeding assessment %d: %v", i, err)
		}
	}
}

func TestMemoryStore_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedAssessments(t, s, "user-1", 5)

	recs, err := s.QueryAssessments(ctx, "user-1", QueryOptions{})
	if err != nil {
		t.Fatalf("QueryAssessments failed: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected 5 records, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].CreatedAt.After(recs[i-1].CreatedAt) {
			t.Errorf("records out of order at %d: %v after %v", i, recs[i].CreatedAt, recs[i-1].CreatedAt)
		}
	}
}

func TestMemoryStore_SinceFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedAssessments(t, s, "user-1", 10)

	recs, err := s.QueryAssessments(ctx, "user-1", QueryOptions{
		Since: baseTime.AddDate(0, 0, -3),
	})
	if err != nil {
		t.Fatalf("QueryAssessments failed: %v", err)
	}
	// offsets 0..-3 are inclusive of the boundary
	if len(recs) != 4 {
		t.Errorf("expected 4 records within window, got %d", len(recs))
	}
}

func TestMemoryStore_Limit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedAssessments(t, s, "user-1", 10)

	recs, err := s.QueryAssessments(ctx, "user-1", QueryOptions{Limit: 3})
	if err != nil {
		t.Fatalf("QueryAssessments failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	// limit keeps the newest
	if !recs[0].CreatedAt.Equal(baseTime) {
		t.Errorf("expected newest record first, got %v", recs[0].CreatedAt)
	}
}

func TestMemoryStore_UserIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedAssessments(t, s, "user-1", 3)
	seedAssessments(t, s, "user-2", 2)

	recs, err := s.QueryAssessments(ctx, "user-1", QueryOptions{})
	if err != nil {
		t.Fatalf("QueryAssessments failed: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("expected 3 records for user-1, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.UserID != "user-1" {
			t.Errorf("got record for wrong user: %s", rec.UserID)
		}
	}
}

func TestMemoryStore_PreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.GetPreferences(ctx, "user-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing preferences, got %v", err)
	}

	hour := 21
	err := s.PutPreferences(ctx, &models.Preferences{
		UserID:         "user-1",
		ReminderHour:   &hour,
		PreferredTools: []models.Tool{models.ToolBreathing},
		UpdatedAt:      baseTime,
	})
	if err != nil {
		t.Fatalf("PutPreferences failed: %v", err)
	}

	prefs, err := s.GetPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if prefs.ReminderHour == nil || *prefs.ReminderHour != 21 {
		t.Errorf("expected reminder hour 21, got %v", prefs.ReminderHour)
	}
	if len(prefs.PreferredTools) != 1 || prefs.PreferredTools[0] != models.ToolBreathing {
		t.Errorf("expected breathing preferred, got %+v", prefs.PreferredTools)
	}
}

func TestMemoryStore_FaultInjection(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("boom")

	s.FailWritesWith(boom)
	if err := s.WriteAssessment(ctx, &models.AssessmentRecord{ID: "a", UserID: "u"}); !errors.Is(err, boom) {
		t.Errorf("expected injected write failure, got %v", err)
	}
	s.FailWritesWith(nil)
	if err := s.WriteAssessment(ctx, &models.AssessmentRecord{ID: "a", UserID: "u"}); err != nil {
		t.Errorf("expected write to recover, got %v", err)
	}

	s.FailNextReads(1, boom)
	if _, err := s.QueryAssessments(ctx, "u", QueryOptions{}); !errors.Is(err, boom) {
		t.Errorf("expected injected read failure, got %v", err)
	}
	if _, err := s.QueryAssessments(ctx, "u", QueryOptions{}); err != nil {
		t.Errorf("expected read to recover, got %v", err)
	}
}
