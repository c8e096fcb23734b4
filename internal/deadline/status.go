package deadline

import (
	"time"

	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
)

// Status is the urgency bucket shown next to a deadline.
type Status int

const (
	StatusOverdue Status = iota
	StatusDueToday
	StatusCritical
	StatusWarning
	StatusNormal
)

// DaysRemaining returns due - today in calendar days (negative once overdue).
func DaysRemaining(due, today time.Time) int {
	return calendar.DaysBetween(today, due)
}

// Classify buckets a due date relative to today:
// <0 overdue, 0 due today, 1..3 critical, 4..7 warning, >7 normal.
func Classify(due, today time.Time) Status {
	return StatusFor(DaysRemaining(due, today))
}

// StatusFor buckets a days-remaining figure.
func StatusFor(days int) Status {
	switch {
	case days < 0:
		return StatusOverdue
	case days == 0:
		return StatusDueToday
	case days <= config.CriticalThresholdDays:
		return StatusCritical
	case days <= config.WarningThresholdDays:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// String returns the wire name used by the API and storage.
func (s Status) String() string {
	switch s {
	case StatusOverdue:
		return config.StatusOverdue
	case StatusDueToday:
		return config.StatusDueToday
	case StatusCritical:
		return config.StatusCritical
	case StatusWarning:
		return config.StatusWarning
	default:
		return config.StatusNormal
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
