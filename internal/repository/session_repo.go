package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabburi/15MinClarity/internal/models"
)

// ErrAlreadyCompleted reports a finish attempt on a row that a concurrent
// request already finalized.
var ErrAlreadyCompleted = errors.New("session already completed")

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = "id, participant_id, variant, pre_score, post_score, delta, completed, local_day, created_at"

func scanSession(row pgx.Row, s *models.Session) error {
	return row.Scan(
		&s.ID, &s.ParticipantID, &s.Variant, &s.PreScore, &s.PostScore,
		&s.Delta, &s.Completed, &s.LocalDay, &s.CreatedAt,
	)
}

// FindByDay returns today's record for the participant, preferring a
// completed one (the partial unique indexes allow at most one of each).
// Absence is reported as pgx.ErrNoRows.
func (r *SessionRepo) FindByDay(ctx context.Context, participantID uuid.UUID, localDay string) (*models.Session, error) {
	s := &models.Session{}
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE participant_id = $1 AND local_day = $2
		ORDER BY completed DESC
		LIMIT 1`

	if err := scanSession(r.pool.QueryRow(ctx, query, participantID, localDay), s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepo) FindAllCompleted(ctx context.Context, participantID uuid.UUID) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE participant_id = $1 AND completed
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *SessionRepo) FindRecentCompleted(ctx context.Context, participantID uuid.UUID, sinceDays int) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE participant_id = $1
		  AND completed
		  AND created_at >= NOW() - ($2 * INTERVAL '1 day')
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, participantID, sinceDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

// List returns every session across the cohort, for admin aggregation.
func (r *SessionRepo) List(ctx context.Context) ([]models.Session, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	s.ID = uuid.New()
	query := `
		INSERT INTO sessions (id, participant_id, variant, pre_score, completed, local_day)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.ParticipantID, s.Variant, s.PreScore, s.LocalDay,
	).Scan(&s.CreatedAt)
}

// SetPreScoreIfUnset writes the pre-score only when none was recorded yet.
// A second check-in on an already-started day keeps the original score.
func (r *SessionRepo) SetPreScoreIfUnset(ctx context.Context, id uuid.UUID, preScore int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET pre_score = $2
		WHERE id = $1
		  AND pre_score IS NULL
		  AND NOT completed
	`, id, preScore)
	return err
}

// Complete finalizes the session exactly once. The WHERE clause keeps
// completed rows immutable even if two clients race.
func (r *SessionRepo) Complete(ctx context.Context, id uuid.UUID, postScore, delta int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET post_score = $2,
			delta = $3,
			completed = TRUE
		WHERE id = $1
		  AND NOT completed
	`, id, postScore, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, ErrAlreadyCompleted)
	}
	return nil
}

func collectSessions(rows pgx.Rows) ([]models.Session, error) {
	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
