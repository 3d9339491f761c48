package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabburi/15MinClarity/internal/models"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, participantID uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	query := `SELECT participant_id, first_completed_local_day FROM profiles WHERE participant_id = $1`

	err := r.pool.QueryRow(ctx, query, participantID).Scan(&p.ParticipantID, &p.FirstCompletedLocalDay)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SetAnchorIfUnset records the first-completion day. The conditional update
// makes the write a no-op once an anchor exists, so the anchor is set exactly
// once no matter how many completions race through here.
func (r *ProfileRepo) SetAnchorIfUnset(ctx context.Context, participantID uuid.UUID, localDay string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (participant_id, first_completed_local_day)
		VALUES ($1, $2)
		ON CONFLICT (participant_id) DO UPDATE
		SET first_completed_local_day = EXCLUDED.first_completed_local_day
		WHERE profiles.first_completed_local_day IS NULL
	`, participantID, localDay)
	return err
}
