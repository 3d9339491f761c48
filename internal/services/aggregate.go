package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nabburi/15MinClarity/internal/models"
)

// Aggregate rolls sessions up into one report row per participant, counting
// completed sessions only. avg_delta averages the deltas that exist (null
// when none); the 7-day window has an inclusive lower bound. Rows come back
// sorted by sessions_completed descending, stable in input order.
func Aggregate(participants []models.Participant, sessions []models.Session, now time.Time) []models.StatsRow {
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)

	type rollup struct {
		row    models.StatsRow
		deltas []int
	}

	index := make(map[uuid.UUID]*rollup, len(participants))
	rollups := make([]*rollup, 0, len(participants))
	for _, p := range participants {
		r := &rollup{row: models.StatsRow{Email: p.Email}}
		index[p.ID] = r
		rollups = append(rollups, r)
	}

	for _, s := range sessions {
		r, ok := index[s.ParticipantID]
		if !ok || !s.Completed {
			continue
		}

		r.row.SessionsCompleted++
		if r.row.LastSessionDate == nil || s.CreatedAt.After(*r.row.LastSessionDate) {
			created := s.CreatedAt
			r.row.LastSessionDate = &created
		}
		if s.Delta != nil {
			r.deltas = append(r.deltas, *s.Delta)
		}
		if !s.CreatedAt.Before(sevenDaysAgo) {
			r.row.SessionsLast7d++
		}
	}

	rows := make([]models.StatsRow, 0, len(rollups))
	for _, r := range rollups {
		if len(r.deltas) > 0 {
			sum := 0
			for _, d := range r.deltas {
				sum += d
			}
			avg := float64(sum) / float64(len(r.deltas))
			r.row.AvgDelta = &avg
		}
		rows = append(rows, r.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SessionsCompleted > rows[j].SessionsCompleted
	})
	return rows
}

// StatsService loads the cohort and its sessions and aggregates them for the
// admin view. Participants outside the cohort allowlist are excluded even if
// they have session rows.
type StatsService struct {
	participants ParticipantStore
	sessions     SessionLister
	cohort       Allowlist
	now          func() time.Time
}

func NewStatsService(participants ParticipantStore, sessions SessionLister, cohort Allowlist) *StatsService {
	return &StatsService{
		participants: participants,
		sessions:     sessions,
		cohort:       cohort,
		now:          time.Now,
	}
}

func (s *StatsService) CohortStats(ctx context.Context) ([]models.StatsRow, error) {
	all, err := s.participants.List(ctx)
	if err != nil {
		return nil, err
	}

	cohort := make([]models.Participant, 0, len(all))
	for _, p := range all {
		member, err := s.cohort.IsCohortMember(ctx, p.Email)
		if err != nil {
			return nil, err
		}
		if member {
			cohort = append(cohort, p)
		}
	}

	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	return Aggregate(cohort, sessions, s.now()), nil
}
