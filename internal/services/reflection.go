package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nabburi/15MinClarity/internal/clock"
	"github.com/nabburi/15MinClarity/internal/models"
)

// reflectionThreshold is the completed-session count that unlocks the
// structured reflection.
const reflectionThreshold = 7

type ReflectionService struct {
	reflections ReflectionStore
	sessions    SessionStore
	events      EventLogger
	today       func() string
}

func NewReflectionService(reflections ReflectionStore, sessions SessionStore, events EventLogger, clk *clock.Clock) *ReflectionService {
	if events == nil {
		events = nopEventLogger{}
	}
	return &ReflectionService{
		reflections: reflections,
		sessions:    sessions,
		events:      events,
		today:       clk.Today,
	}
}

type ReflectionEligibility struct {
	Eligible          bool `json:"eligible"`
	CompletedSessions int  `json:"completed_sessions"`
	AlreadySubmitted  bool `json:"already_submitted"`
}

func (s *ReflectionService) Eligibility(ctx context.Context, participantID uuid.UUID) (*ReflectionEligibility, error) {
	completed, err := s.sessions.FindAllCompleted(ctx, participantID)
	if err != nil {
		return nil, err
	}

	submitted, err := s.reflections.Exists(ctx, participantID, s.today())
	if err != nil {
		return nil, err
	}

	return &ReflectionEligibility{
		Eligible:          len(completed) >= reflectionThreshold && !submitted,
		CompletedSessions: len(completed),
		AlreadySubmitted:  submitted,
	}, nil
}

// Submit captures the two categorical answers, at most once per local day.
// The unique constraint is the last line of defense against a racing
// duplicate; either path surfaces as a conflict.
func (s *ReflectionService) Submit(ctx context.Context, participantID uuid.UUID, comparison, wouldContinue string) (*models.Reflection, error) {
	fieldErrors := make(map[string]string)
	switch comparison {
	case models.ComparisonMore, models.ComparisonSame, models.ComparisonLess:
	default:
		fieldErrors["comparison_to_day_one"] = "Must be more, same, or less"
	}
	switch wouldContinue {
	case models.ContinueYes, models.ContinueMaybe, models.ContinueNo:
	default:
		fieldErrors["would_continue"] = "Must be yes, maybe, or no"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	eligibility, err := s.Eligibility(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if eligibility.AlreadySubmitted {
		return nil, &ConflictError{Message: "Reflection already submitted today"}
	}
	if !eligibility.Eligible {
		return nil, &ForbiddenError{Message: "Reflection unlocks after 7 completed sessions"}
	}

	reflection := &models.Reflection{
		ParticipantID:      participantID,
		LocalDay:           s.today(),
		ComparisonToDayOne: comparison,
		WouldContinue:      wouldContinue,
	}
	if err := s.reflections.Create(ctx, reflection); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, &ConflictError{Message: "Reflection already submitted today"}
		}
		return nil, err
	}

	s.events.Log(ctx, "reflection_submitted", participantID, map[string]interface{}{
		"reflection_id": reflection.ID,
	})
	return reflection, nil
}
