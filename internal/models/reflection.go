package models

import (
	"time"

	"github.com/google/uuid"
)

// Allowed answers for the structured reflection.
const (
	ComparisonMore = "more"
	ComparisonSame = "same"
	ComparisonLess = "less"

	ContinueYes   = "yes"
	ContinueMaybe = "maybe"
	ContinueNo    = "no"
)

// Reflection is a once-per-day structured capture, offered after seven
// completed sessions. Immutable after creation.
type Reflection struct {
	ID                 uuid.UUID `json:"id"`
	ParticipantID      uuid.UUID `json:"participant_id"`
	LocalDay           string    `json:"local_day"`
	ComparisonToDayOne string    `json:"comparison_to_day_one"`
	WouldContinue      string    `json:"would_continue"`
	CreatedAt          time.Time `json:"created_at"`
}
