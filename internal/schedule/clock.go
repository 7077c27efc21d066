// AngelaMos | 2026
// clock.go

package schedule

import (
	"time"
)

type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock and reports the calendar day in a fixed
// location, so every caller agrees on when a day starts.
type SystemClock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc, now: time.Now}
}

func (c *SystemClock) Today() Date {
	return DateOf(c.now().In(c.loc))
}

func (c *SystemClock) Location() *time.Location {
	return c.loc
}

type FixedClock Date

func (c FixedClock) Today() Date {
	return Date(c)
}
