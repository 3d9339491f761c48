package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabburi/15MinClarity/internal/models"
)

type ReflectionRepo struct {
	pool *pgxpool.Pool
}

func NewReflectionRepo(pool *pgxpool.Pool) *ReflectionRepo {
	return &ReflectionRepo{pool: pool}
}

func (r *ReflectionRepo) Exists(ctx context.Context, participantID uuid.UUID, localDay string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM reflections WHERE participant_id = $1 AND local_day = $2)",
		participantID, localDay,
	).Scan(&exists)
	return exists, err
}

// Create inserts the reflection. The unique (participant_id, local_day)
// constraint rejects a racing duplicate with a 23505 error.
func (r *ReflectionRepo) Create(ctx context.Context, ref *models.Reflection) error {
	ref.ID = uuid.New()
	query := `
		INSERT INTO reflections (id, participant_id, local_day, comparison_to_day_one, would_continue)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		ref.ID, ref.ParticipantID, ref.LocalDay, ref.ComparisonToDayOne, ref.WouldContinue,
	).Scan(&ref.CreatedAt)
}
