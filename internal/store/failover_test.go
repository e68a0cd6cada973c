package store

import (
	"context"
	"errors"
	"testing"

	"github.com/sereno-app/sereno/backend/internal/models"
)

func TestRetryStore_TransientWriteRecovers(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	retrying := NewRetrying(mem)

	// read-side flake: first attempt fails, the retry lands
	mem.FailNextReads(1, errors.New("connection reset"))
	if _, err := retrying.QueryAssessments(ctx, "user-1", QueryOptions{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if mem.ReadCalls() != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", mem.ReadCalls())
	}
}

func TestRetryStore_PersistentFailureTagged(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	retrying := NewRetrying(mem)

	mem.FailWritesWith(errors.New("disk full"))
	err := retrying.WriteAssessment(ctx, &models.AssessmentRecord{ID: "a", UserID: "u"})
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	// exactly one retry, never more
	if mem.WriteCalls() != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", mem.WriteCalls())
	}
}

func TestRetryStore_NotFoundPassesThrough(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	retrying := NewRetrying(mem)

	_, err := retrying.GetPreferences(ctx, "nobody")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, models.ErrStoreUnavailable) {
		t.Error("missing record must not be tagged store-unavailable")
	}
	// absence is a terminal answer, not worth a retry
	if mem.ReadCalls() != 1 {
		t.Errorf("expected 1 attempt, got %d", mem.ReadCalls())
	}
}

func TestRetryStore_CanceledContextNotRetried(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	retrying := NewRetrying(mem)

	mem.FailNextReads(2, context.Canceled)
	_, err := retrying.QueryAssessments(ctx, "user-1", QueryOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if mem.ReadCalls() != 1 {
		t.Errorf("expected 1 attempt for canceled context, got %d", mem.ReadCalls())
	}
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Errorf("expected surviving error tagged store-unavailable, got %v", err)
	}
}

func TestRetryStore_SuccessUntouched(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	retrying := NewRetrying(mem)

	if err := retrying.WriteAssessment(ctx, &models.AssessmentRecord{ID: "a", UserID: "u"}); err != nil {
		t.Fatalf("expected clean write, got %v", err)
	}
	if mem.WriteCalls() != 1 {
		t.Errorf("expected 1 attempt on success, got %d", mem.WriteCalls())
	}

	recs, err := retrying.QueryAssessments(ctx, "u", QueryOptions{})
	if err != nil {
		t.Fatalf("expected clean read, got %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected the written record back, got %d", len(recs))
	}
}
