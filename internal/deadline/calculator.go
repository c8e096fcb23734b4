// Package deadline computes due dates for Chilean legal terms.
package deadline

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
)

// HolidayOracle is the read-only view of a holiday calendar the calculator needs.
// *calendar.Calendar satisfies it.
type HolidayOracle interface {
	IsHoliday(date time.Time) bool
	IsBusinessDay(date time.Time) bool
}

// Request describes a term to be computed.
type Request struct {
	Start          time.Time
	Days           int
	Mode           Mode
	Suspended      bool
	SuspensionDays int
}

// EffectiveDays is the count actually walked: Days plus SuspensionDays when suspended.
func (r Request) EffectiveDays() int {
	if r.Suspended {
		return r.Days + r.SuspensionDays
	}
	return r.Days
}

// Validate checks the request preconditions.
func (r Request) Validate() error {
	if !r.Mode.Valid() {
		return &InvalidModeError{Mode: r.Mode.String()}
	}
	if r.Days < 0 {
		return &InvalidArgumentError{Field: "days", Value: r.Days, Reason: config.ErrNegativeDays}
	}
	if r.Days > config.MaxTermDays {
		return &InvalidArgumentError{Field: "days", Value: r.Days, Reason: config.ErrTermTooLong}
	}
	if !r.Suspended {
		return nil
	}
	if r.SuspensionDays < 0 {
		return &InvalidArgumentError{Field: "suspension_days", Value: r.SuspensionDays, Reason: config.ErrNegativeSuspend}
	}
	// Compared by difference so the sum never overflows.
	if r.SuspensionDays > config.MaxTermDays-r.Days {
		return &InvalidArgumentError{Field: "suspension_days", Value: r.SuspensionDays, Reason: config.ErrTermTooLong}
	}
	return nil
}

// Calculator computes due dates against a holiday calendar it never mutates.
type Calculator struct {
	cal HolidayOracle
}

// NewCalculator returns a calculator reading holidays from cal.
func NewCalculator(cal HolidayOracle) *Calculator {
	return &Calculator{cal: cal}
}

// ComputeDueDate is a positional shorthand for Compute.
func (c *Calculator) ComputeDueDate(start time.Time, days int, mode Mode, suspended bool, suspensionDays int) (time.Time, error) {
	return c.Compute(Request{
		Start:          start,
		Days:           days,
		Mode:           mode,
		Suspended:      suspended,
		SuspensionDays: suspensionDays,
	})
}

// Compute returns the due date for req.
//
// The start date is never counted. A zero effective count returns the start
// date unchanged in every mode, even when the start is not a valid day.
func (c *Calculator) Compute(req Request) (time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, err
	}

	start := calendar.Day(req.Start)
	n := req.EffectiveDays()

	var due time.Time
	switch req.Mode {
	case Calendar:
		due = calendar.AddDays(start, n)
	case Business:
		due = c.step(start, n, c.cal.IsBusinessDay)
	case Judicial:
		due = c.step(start, n, c.isJudicialDay)
	}

	slog.Debug(config.MsgDueComputed,
		config.LogKeyComponent, config.CompDeadline,
		config.LogKeyStart, calendar.FormatDate(start),
		config.LogKeyMode, req.Mode.String(),
		config.LogKeyEffective, n,
		config.LogKeyDue, calendar.FormatDate(due),
	)
	return due, nil
}

// step advances one calendar day at a time until n valid days have been seen.
func (c *Calculator) step(start time.Time, n int, valid func(time.Time) bool) time.Time {
	current := start
	for remaining := n; remaining > 0; {
		current = calendar.AddDays(current, 1)
		if valid(current) {
			remaining--
		}
	}
	return current
}

// isJudicialDay excludes Sundays and holidays only.
func (c *Calculator) isJudicialDay(date time.Time) bool {
	return !c.cal.IsHoliday(date) && calendar.ISOWeekday(date) != 7
}
