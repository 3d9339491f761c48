package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant identity is issued externally; rows here are upserted lazily on
// the first authenticated request so admin reporting has emails to show.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
