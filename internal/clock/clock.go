// Package clock keys everything to calendar days in a single fixed reference
// time zone, so "one session per day" means the same thing for every
// participant regardless of where they are.
package clock

import (
	"fmt"
	"time"
)

const DayFormat = "2006-01-02"

type Clock struct {
	loc *time.Location
}

func New(tzName string) (*Clock, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", tzName, err)
	}
	return &Clock{loc: loc}, nil
}

// LocalDay returns the sortable "YYYY-MM-DD" key for t in the reference zone.
func (c *Clock) LocalDay(t time.Time) string {
	return t.In(c.loc).Format(DayFormat)
}

func (c *Clock) Today() string {
	return c.LocalDay(time.Now())
}

// ProgramDay is the 1-based day index since anchorDay. An empty or malformed
// anchor means no completed session yet, which counts as day 1.
func ProgramDay(anchorDay, today string) int {
	if anchorDay == "" {
		return 1
	}
	anchor, err := time.Parse(DayFormat, anchorDay)
	if err != nil {
		return 1
	}
	now, err := time.Parse(DayFormat, today)
	if err != nil {
		return 1
	}
	days := int(now.Sub(anchor).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days + 1
}
