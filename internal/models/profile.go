package models

import "github.com/google/uuid"

// Profile anchors a participant's program: FirstCompletedLocalDay is set on
// the first-ever completed session and never moves afterward.
type Profile struct {
	ParticipantID          uuid.UUID `json:"participant_id"`
	FirstCompletedLocalDay *string   `json:"first_completed_local_day"`
}
