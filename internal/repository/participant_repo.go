package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabburi/15MinClarity/internal/models"
)

type ParticipantRepo struct {
	pool *pgxpool.Pool
}

func NewParticipantRepo(pool *pgxpool.Pool) *ParticipantRepo {
	return &ParticipantRepo{pool: pool}
}

// Ensure upserts the participant row so admin reporting can resolve emails.
// Identity itself is issued by the external provider; this is only a mirror.
func (r *ParticipantRepo) Ensure(ctx context.Context, id uuid.UUID, email string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO participants (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
	`, id, strings.ToLower(email))
	return err
}

func (r *ParticipantRepo) List(ctx context.Context) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, email, created_at FROM participants ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
