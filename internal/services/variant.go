package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nabburi/15MinClarity/internal/clock"
	"github.com/nabburi/15MinClarity/internal/models"
)

// minScoredSessions is how many completed, delta-bearing sessions are needed
// before the outcome comparison kicks in on program day 6+.
const minScoredSessions = 3

// VariantSelector decides which practice variant a participant gets today.
// Days 1-3 are a fixed breath onboarding phase, days 4-5 fixed sound
// exposure; from day 6 the variant with the strictly better mean delta wins.
type VariantSelector struct {
	sessions SessionStore
	profiles ProfileStore
	today    func() string
}

func NewVariantSelector(sessions SessionStore, profiles ProfileStore, clk *clock.Clock) *VariantSelector {
	return &VariantSelector{
		sessions: sessions,
		profiles: profiles,
		today:    clk.Today,
	}
}

func (s *VariantSelector) ChooseVariant(ctx context.Context, participantID uuid.UUID) (models.Variant, error) {
	anchor := ""
	profile, err := s.profiles.Get(ctx, participantID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	if profile != nil && profile.FirstCompletedLocalDay != nil {
		anchor = *profile.FirstCompletedLocalDay
	}

	switch day := clock.ProgramDay(anchor, s.today()); {
	case day <= 3:
		return models.VariantBreath, nil
	case day <= 5:
		return models.VariantSound, nil
	}

	completed, err := s.sessions.FindAllCompleted(ctx, participantID)
	if err != nil {
		return "", err
	}

	sums := map[models.Variant]int{}
	counts := map[models.Variant]int{}
	for _, rec := range completed {
		// Sessions without a recorded delta carry no outcome signal.
		if rec.Delta == nil {
			continue
		}
		sums[rec.Variant] += *rec.Delta
		counts[rec.Variant]++
	}

	if counts[models.VariantBreath]+counts[models.VariantSound] < minScoredSessions {
		return models.VariantBreath, nil
	}

	// A variant with no scored sessions never wins; ties go to breath.
	if counts[models.VariantSound] == 0 {
		return models.VariantBreath, nil
	}
	if counts[models.VariantBreath] == 0 {
		return models.VariantSound, nil
	}

	meanBreath := float64(sums[models.VariantBreath]) / float64(counts[models.VariantBreath])
	meanSound := float64(sums[models.VariantSound]) / float64(counts[models.VariantSound])
	if meanSound > meanBreath {
		return models.VariantSound, nil
	}
	return models.VariantBreath, nil
}
