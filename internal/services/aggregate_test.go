package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nabburi/15MinClarity/internal/models"
)

type memAllowlist struct {
	cohort map[string]bool
	admin  map[string]bool
}

func (m *memAllowlist) IsCohortMember(_ context.Context, email string) (bool, error) {
	return m.cohort[strings.ToLower(email)], nil
}

func (m *memAllowlist) IsAdmin(_ context.Context, email string) (bool, error) {
	return m.admin[strings.ToLower(email)], nil
}

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	idle := models.Participant{ID: uuid.New(), Email: "idle@example.com"}
	steady := models.Participant{ID: uuid.New(), Email: "steady@example.com"}
	daily := models.Participant{ID: uuid.New(), Email: "daily@example.com"}

	sessions := &memSessionStore{}
	// steady: 5 completed, deltas 1,2,3,2,1, every other day: -9, -7, -5, -3,
	// -1. The -7 session sits exactly on the window bound.
	for i, d := range []int{1, 2, 3, 2, 1} {
		createdAt := now.AddDate(0, 0, -(9 - 2*i))
		sessions.addCompleted(steady.ID, models.VariantBreath, intPtr(d), createdAt, day(createdAt))
	}
	// daily: 10 completed, one per day ending yesterday, no deltas recorded.
	for i := 0; i < 10; i++ {
		createdAt := now.AddDate(0, 0, -(10 - i))
		sessions.addCompleted(daily.ID, models.VariantSound, nil, createdAt, day(createdAt))
	}
	// An open session must not count anywhere.
	sessions.sessions = append(sessions.sessions, &models.Session{
		ID:            uuid.New(),
		ParticipantID: idle.ID,
		Variant:       models.VariantBreath,
		LocalDay:      day(now),
		CreatedAt:     now,
	})

	all, _ := sessions.List(context.Background())
	rows := Aggregate([]models.Participant{idle, steady, daily}, all, now)

	if len(rows) != 3 {
		t.Fatalf("Got %d rows, want 3", len(rows))
	}

	// Descending by completed count.
	if rows[0].Email != "daily@example.com" || rows[1].Email != "steady@example.com" || rows[2].Email != "idle@example.com" {
		t.Fatalf("Row order = %s, %s, %s", rows[0].Email, rows[1].Email, rows[2].Email)
	}

	d, s, i := rows[0], rows[1], rows[2]

	if d.SessionsCompleted != 10 || s.SessionsCompleted != 5 || i.SessionsCompleted != 0 {
		t.Errorf("Completed counts = %d/%d/%d, want 10/5/0",
			d.SessionsCompleted, s.SessionsCompleted, i.SessionsCompleted)
	}

	if s.AvgDelta == nil || *s.AvgDelta != 1.8 {
		t.Errorf("steady AvgDelta = %v, want 1.8", s.AvgDelta)
	}
	if d.AvgDelta != nil {
		t.Errorf("daily AvgDelta = %v, want nil when no deltas exist", *d.AvgDelta)
	}
	if i.AvgDelta != nil || i.LastSessionDate != nil {
		t.Error("idle row must have nil AvgDelta and LastSessionDate")
	}

	// Sessions on days -1..-7 count; -8 and older do not. The bound is
	// inclusive, so the -7 session is in.
	if d.SessionsLast7d != 7 {
		t.Errorf("daily SessionsLast7d = %d, want 7", d.SessionsLast7d)
	}
	if s.SessionsLast7d != 4 {
		t.Errorf("steady SessionsLast7d = %d, want 4 (inclusive bound)", s.SessionsLast7d)
	}

	if d.LastSessionDate == nil || !d.LastSessionDate.Equal(now.AddDate(0, 0, -1)) {
		t.Errorf("daily LastSessionDate = %v, want yesterday", d.LastSessionDate)
	}
}

func TestAggregate_IgnoresUnknownParticipants(t *testing.T) {
	now := time.Now()
	known := models.Participant{ID: uuid.New(), Email: "known@example.com"}

	sessions := &memSessionStore{}
	sessions.addCompleted(known.ID, models.VariantBreath, intPtr(2), now, day(now))
	sessions.addCompleted(uuid.New(), models.VariantBreath, intPtr(9), now, day(now))

	all, _ := sessions.List(context.Background())
	rows := Aggregate([]models.Participant{known}, all, now)

	if len(rows) != 1 || rows[0].SessionsCompleted != 1 {
		t.Fatalf("rows = %+v, want one row with one completed session", rows)
	}
}

func TestCohortStats_FiltersByAllowlist(t *testing.T) {
	now := time.Now()
	member := models.Participant{ID: uuid.New(), Email: "member@example.com"}
	outsider := models.Participant{ID: uuid.New(), Email: "outsider@example.com"}

	participants := &memParticipantStore{}
	participants.Ensure(context.Background(), member.ID, member.Email)
	participants.Ensure(context.Background(), outsider.ID, outsider.Email)

	sessions := &memSessionStore{}
	sessions.addCompleted(member.ID, models.VariantBreath, intPtr(1), now, day(now))
	sessions.addCompleted(outsider.ID, models.VariantBreath, intPtr(1), now, day(now))

	svc := NewStatsService(participants, sessions, &memAllowlist{
		cohort: map[string]bool{"member@example.com": true},
	})

	rows, err := svc.CohortStats(context.Background())
	if err != nil {
		t.Fatalf("CohortStats: %v", err)
	}
	if len(rows) != 1 || rows[0].Email != "member@example.com" {
		t.Fatalf("rows = %+v, want only the cohort member", rows)
	}
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}
