package repository

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepo is a best-effort audit trail. Failures are logged and dropped so
// telemetry can never block a participant's session.
type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Log(ctx context.Context, eventName string, participantID uuid.UUID, meta map[string]interface{}) {
	var metaJSON []byte
	if meta != nil {
		metaJSON, _ = json.Marshal(meta)
	}

	_, err := r.pool.Exec(ctx,
		"INSERT INTO events (event_name, participant_id, meta) VALUES ($1, $2, $3)",
		eventName, participantID, metaJSON,
	)
	if err != nil {
		log.Printf("event log: failed to record %s: %v", eventName, err)
	}
}
