package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nabburi/15MinClarity/internal/models"
)

// Storage collaborators, declared on the consumer side so the session logic
// can be exercised against in-memory fakes. The pgx repositories satisfy
// these; absence of a row is reported as pgx.ErrNoRows.

type SessionStore interface {
	FindByDay(ctx context.Context, participantID uuid.UUID, localDay string) (*models.Session, error)
	FindAllCompleted(ctx context.Context, participantID uuid.UUID) ([]models.Session, error)
	FindRecentCompleted(ctx context.Context, participantID uuid.UUID, sinceDays int) ([]models.Session, error)
	Create(ctx context.Context, s *models.Session) error
	SetPreScoreIfUnset(ctx context.Context, id uuid.UUID, preScore int) error
	Complete(ctx context.Context, id uuid.UUID, postScore, delta int) error
}

type SessionLister interface {
	List(ctx context.Context) ([]models.Session, error)
}

type ProfileStore interface {
	Get(ctx context.Context, participantID uuid.UUID) (*models.Profile, error)
	SetAnchorIfUnset(ctx context.Context, participantID uuid.UUID, localDay string) error
}

type ReflectionStore interface {
	Exists(ctx context.Context, participantID uuid.UUID, localDay string) (bool, error)
	Create(ctx context.Context, ref *models.Reflection) error
}

type ParticipantStore interface {
	Ensure(ctx context.Context, id uuid.UUID, email string) error
	List(ctx context.Context) ([]models.Participant, error)
}

// EventLogger is fire-and-forget telemetry; implementations swallow failures.
type EventLogger interface {
	Log(ctx context.Context, eventName string, participantID uuid.UUID, meta map[string]interface{})
}

// Allowlist answers cohort and admin membership for a (lowercased) email.
type Allowlist interface {
	IsCohortMember(ctx context.Context, email string) (bool, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type nopEventLogger struct{}

func (nopEventLogger) Log(context.Context, string, uuid.UUID, map[string]interface{}) {}
