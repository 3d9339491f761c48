package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nabburi/15MinClarity/internal/models"
)

func newTestReflectionService(sessions *memSessionStore, reflections *memReflectionStore, today string) *ReflectionService {
	return &ReflectionService{
		reflections: reflections,
		sessions:    sessions,
		events:      nopEventLogger{},
		today:       fixedDay(today),
	}
}

func seedCompleted(sessions *memSessionStore, pid uuid.UUID, n int) {
	for i := 0; i < n; i++ {
		createdAt := time.Now().AddDate(0, 0, -n+i)
		sessions.addCompleted(pid, models.VariantBreath, intPtr(1), createdAt, day(createdAt))
	}
}

func TestEligibility_Threshold(t *testing.T) {
	tests := []struct {
		completed int
		eligible  bool
	}{
		{0, false},
		{6, false},
		{7, true},
		{12, true},
	}

	for _, tc := range tests {
		pid := uuid.New()
		sessions := &memSessionStore{}
		seedCompleted(sessions, pid, tc.completed)

		svc := newTestReflectionService(sessions, newMemReflectionStore(), "2026-02-20")
		got, err := svc.Eligibility(context.Background(), pid)
		if err != nil {
			t.Fatalf("Eligibility(%d completed): %v", tc.completed, err)
		}
		if got.Eligible != tc.eligible || got.CompletedSessions != tc.completed {
			t.Errorf("Eligibility(%d completed) = %+v, want eligible=%v", tc.completed, got, tc.eligible)
		}
	}
}

func TestSubmit_StoresOneRow(t *testing.T) {
	pid := uuid.New()
	sessions := &memSessionStore{}
	seedCompleted(sessions, pid, 7)
	reflections := newMemReflectionStore()

	svc := newTestReflectionService(sessions, reflections, "2026-02-20")
	ref, err := svc.Submit(context.Background(), pid, models.ComparisonMore, models.ContinueYes)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ref.LocalDay != "2026-02-20" || ref.ComparisonToDayOne != models.ComparisonMore {
		t.Errorf("Stored reflection = %+v", ref)
	}

	elig, _ := svc.Eligibility(context.Background(), pid)
	if !elig.AlreadySubmitted || elig.Eligible {
		t.Errorf("Post-submit eligibility = %+v, want already_submitted and not eligible", elig)
	}
}

func TestSubmit_DuplicateRejected(t *testing.T) {
	pid := uuid.New()
	sessions := &memSessionStore{}
	seedCompleted(sessions, pid, 8)
	reflections := newMemReflectionStore()

	svc := newTestReflectionService(sessions, reflections, "2026-02-20")
	if _, err := svc.Submit(context.Background(), pid, models.ComparisonSame, models.ContinueMaybe); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	var conflict *ConflictError
	if _, err := svc.Submit(context.Background(), pid, models.ComparisonLess, models.ContinueNo); !errors.As(err, &conflict) {
		t.Fatalf("second Submit error = %v, want ConflictError", err)
	}
	if len(reflections.rows) != 1 {
		t.Errorf("Store holds %d reflections, want exactly 1", len(reflections.rows))
	}
}

func TestSubmit_BelowThresholdForbidden(t *testing.T) {
	pid := uuid.New()
	sessions := &memSessionStore{}
	seedCompleted(sessions, pid, 6)

	svc := newTestReflectionService(sessions, newMemReflectionStore(), "2026-02-20")

	var forbidden *ForbiddenError
	if _, err := svc.Submit(context.Background(), pid, models.ComparisonMore, models.ContinueYes); !errors.As(err, &forbidden) {
		t.Errorf("Submit below threshold error = %v, want ForbiddenError", err)
	}
}

func TestSubmit_InvalidAnswers(t *testing.T) {
	pid := uuid.New()
	sessions := &memSessionStore{}
	seedCompleted(sessions, pid, 7)

	svc := newTestReflectionService(sessions, newMemReflectionStore(), "2026-02-20")

	var vErr *ValidationError
	_, err := svc.Submit(context.Background(), pid, "way more", "absolutely")
	if !errors.As(err, &vErr) {
		t.Fatalf("Submit error = %v, want ValidationError", err)
	}
	if _, ok := vErr.Fields["comparison_to_day_one"]; !ok {
		t.Error("Expected a field error for comparison_to_day_one")
	}
	if _, ok := vErr.Fields["would_continue"]; !ok {
		t.Error("Expected a field error for would_continue")
	}
}
