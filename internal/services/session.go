package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nabburi/15MinClarity/internal/clock"
	"github.com/nabburi/15MinClarity/internal/models"
	"github.com/nabburi/15MinClarity/internal/repository"
)

// VariantChooser is satisfied by *VariantSelector.
type VariantChooser interface {
	ChooseVariant(ctx context.Context, participantID uuid.UUID) (models.Variant, error)
}

// SessionService drives the daily check-in → practice → check-out flow and
// owns the one-session-per-day rule (backed by the store's unique indexes).
// Storage errors propagate untouched; there are no retries here.
type SessionService struct {
	sessions     SessionStore
	profiles     ProfileStore
	participants ParticipantStore
	variants     VariantChooser
	events       EventLogger
	today        func() string
}

func NewSessionService(
	sessions SessionStore,
	profiles ProfileStore,
	participants ParticipantStore,
	variants VariantChooser,
	events EventLogger,
	clk *clock.Clock,
) *SessionService {
	if events == nil {
		events = nopEventLogger{}
	}
	return &SessionService{
		sessions:     sessions,
		profiles:     profiles,
		participants: participants,
		variants:     variants,
		events:       events,
		today:        clk.Today,
	}
}

// TodayState is what the client needs to route to the right screen.
type TodayState struct {
	Step    string          `json:"step"`
	Variant models.Variant  `json:"variant"`
	Session *models.Session `json:"session"`
}

// StartToday begins (or resumes) today's session at the given pre-score.
// A completed record for today is final; an incomplete one is resumed with
// its original pre-score kept.
func (s *SessionService) StartToday(ctx context.Context, participant models.Participant, preScore int) (*models.Session, error) {
	if err := validateScore("pre_score", preScore); err != nil {
		return nil, err
	}

	// The participants row is the foreign-key parent of today's session row,
	// so its upsert failing is this request's real fault.
	if err := s.participants.Ensure(ctx, participant.ID, participant.Email); err != nil {
		return nil, err
	}

	today := s.today()
	existing, err := s.sessions.FindByDay(ctx, participant.ID, today)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if existing != nil {
		if existing.Completed {
			return nil, &AlreadyCompletedTodayError{}
		}
		if existing.PreScore == nil {
			if err := s.sessions.SetPreScoreIfUnset(ctx, existing.ID, preScore); err != nil {
				return nil, err
			}
			existing.PreScore = &preScore
		}
		s.events.Log(ctx, "session_resumed", participant.ID, map[string]interface{}{"session_id": existing.ID})
		return existing, nil
	}

	variant, err := s.variants.ChooseVariant(ctx, participant.ID)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ParticipantID: participant.ID,
		Variant:       variant,
		PreScore:      &preScore,
		LocalDay:      today,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.events.Log(ctx, "session_started", participant.ID, map[string]interface{}{
		"session_id": session.ID,
		"variant":    variant,
	})
	return session, nil
}

// FinishToday records the post-score, computes the delta and finalizes the
// record, then anchors the profile if this was the first-ever completion.
func (s *SessionService) FinishToday(ctx context.Context, participantID uuid.UUID, postScore int) (*models.Session, error) {
	if err := validateScore("post_score", postScore); err != nil {
		return nil, err
	}

	today := s.today()
	session, err := s.sessions.FindByDay(ctx, participantID, today)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NoActiveSessionError{Message: "No active session for today"}
		}
		return nil, err
	}
	if session.Completed {
		return nil, &NoActiveSessionError{Message: "Today's session is already completed"}
	}
	if session.PreScore == nil {
		return nil, &NoActiveSessionError{Message: "Today's session was never checked in"}
	}

	delta := postScore - *session.PreScore
	if err := s.sessions.Complete(ctx, session.ID, postScore, delta); err != nil {
		// A racing finish that lost gets the same answer as any other
		// check-out against a finalized day.
		if errors.Is(err, repository.ErrAlreadyCompleted) {
			return nil, &NoActiveSessionError{Message: "Today's session is already completed"}
		}
		return nil, err
	}
	session.PostScore = &postScore
	session.Delta = &delta
	session.Completed = true

	// First completion anchors the program; the store ignores later writes.
	if err := s.profiles.SetAnchorIfUnset(ctx, participantID, today); err != nil {
		return nil, err
	}

	s.events.Log(ctx, "session_completed", participantID, map[string]interface{}{
		"session_id": session.ID,
		"delta":      delta,
	})
	return session, nil
}

// RecentCompleted returns the participant's completed sessions from the last
// seven days, newest first from the store.
func (s *SessionService) RecentCompleted(ctx context.Context, participantID uuid.UUID) ([]models.Session, error) {
	return s.sessions.FindRecentCompleted(ctx, participantID, 7)
}

// Today reports the current step for idempotent re-entry: a completed record
// means the day is done, an open one resumes practice, otherwise check-in.
func (s *SessionService) Today(ctx context.Context, participantID uuid.UUID) (*TodayState, error) {
	session, err := s.sessions.FindByDay(ctx, participantID, s.today())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if session != nil {
		step := models.StepPracticing
		if session.Completed {
			step = models.StepDone
		}
		return &TodayState{Step: step, Variant: session.Variant, Session: session}, nil
	}

	variant, err := s.variants.ChooseVariant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return &TodayState{Step: models.StepCheckIn, Variant: variant}, nil
}

func validateScore(field string, score int) error {
	if score < 0 || score > 10 {
		return &ValidationError{Fields: map[string]string{field: "Score must be between 0 and 10"}}
	}
	return nil
}
