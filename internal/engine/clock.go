package engine

import (
	"time"

	"github.com/tartampluch/go-plazos/internal/calendar"
)

// Clock abstracts time.Now() to allow deterministic testing.
// The Generator uses it to pick the feed's year window and DTSTAMP.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the clock's current civil date.
func Today(c Clock) time.Time {
	return calendar.Day(c.Now())
}
