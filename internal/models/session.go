package models

import (
	"time"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantBreath Variant = "breath"
	VariantSound  Variant = "sound"
)

func (v Variant) Valid() bool {
	return v == VariantBreath || v == VariantSound
}

// Session is one attempted daily practice session. Once Completed is true the
// row is never written again.
type Session struct {
	ID            uuid.UUID `json:"id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	Variant       Variant   `json:"variant"`
	PreScore      *int      `json:"pre_score"`
	PostScore     *int      `json:"post_score"`
	Delta         *int      `json:"delta"`
	Completed     bool      `json:"completed"`
	LocalDay      string    `json:"local_day"`
	CreatedAt     time.Time `json:"created_at"`
}

// Session step as seen by the client. "practicing" covers everything between
// check-in and check-out; the server cannot tell the timer screen from the
// check-out screen and does not need to.
const (
	StepCheckIn    = "check_in"
	StepPracticing = "practicing"
	StepDone       = "done"
)
