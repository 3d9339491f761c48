package models

import "time"

// StatsRow is one admin-report line per cohort participant, computed from
// completed sessions only.
type StatsRow struct {
	Email             string     `json:"email"`
	SessionsCompleted int        `json:"sessions_completed"`
	LastSessionDate   *time.Time `json:"last_session_date"`
	AvgDelta          *float64   `json:"avg_delta"`
	SessionsLast7d    int        `json:"sessions_last_7d"`
}
