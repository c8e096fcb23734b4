// Package calendar classifies civil dates as holidays, weekends or business
// days for the Chilean legal calendar.
package calendar

import (
	"slices"
	"time"
)

// Holiday is a single entry of the holiday table.
type Holiday struct {
	Date time.Time
	Name string
}

// Calendar owns a holiday table and answers business-day queries.
//
// A Calendar is not safe for concurrent mutation; callers sharing one
// instance across goroutines must serialize AddHoliday/RemoveHoliday
// against readers themselves.
type Calendar struct {
	holidays map[dateKey]string
}

// New returns a calendar holding exactly the given holidays.
// Later entries overwrite earlier ones on the same date.
func New(seed ...Holiday) *Calendar {
	c := &Calendar{holidays: make(map[dateKey]string, len(seed))}
	for _, h := range seed {
		c.AddHoliday(h.Date, h.Name)
	}
	return c
}

// NewChilean returns a calendar seeded with the embedded national holiday table.
// Each call returns an independent copy.
func NewChilean() *Calendar {
	return New(ChileanHolidays()...)
}

// Clone returns an independent copy of the calendar.
func (c *Calendar) Clone() *Calendar {
	cp := &Calendar{holidays: make(map[dateKey]string, len(c.holidays))}
	for k, v := range c.holidays {
		cp.holidays[k] = v
	}
	return cp
}

// Len reports the number of holidays in the table.
func (c *Calendar) Len() int {
	return len(c.holidays)
}

// IsHoliday reports whether date is in the holiday table.
func (c *Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[keyOf(date)]
	return ok
}

// HolidayName returns the label stored for date.
func (c *Calendar) HolidayName(date time.Time) (string, bool) {
	name, ok := c.holidays[keyOf(date)]
	return name, ok
}

// IsWeekend reports whether date falls on Saturday (ISO 6) or Sunday (ISO 7).
func (c *Calendar) IsWeekend(date time.Time) bool {
	return ISOWeekday(date) >= 6
}

// IsBusinessDay reports whether date is neither a holiday nor a weekend day.
func (c *Calendar) IsBusinessDay(date time.Time) bool {
	return !c.IsHoliday(date) && !c.IsWeekend(date)
}

// IsJudicialDay reports whether date counts for judicial terms:
// Saturdays are valid, Sundays and holidays are not.
func (c *Calendar) IsJudicialDay(date time.Time) bool {
	return !c.IsHoliday(date) && ISOWeekday(date) != 7
}

// NextBusinessDay returns the first business day strictly after date.
func (c *Calendar) NextBusinessDay(date time.Time) time.Time {
	next := AddDays(date, 1)
	for !c.IsBusinessDay(next) {
		next = AddDays(next, 1)
	}
	return next
}

// PreviousBusinessDay returns the last business day strictly before date.
func (c *Calendar) PreviousBusinessDay(date time.Time) time.Time {
	prev := AddDays(date, -1)
	for !c.IsBusinessDay(prev) {
		prev = AddDays(prev, -1)
	}
	return prev
}

// CountBusinessDays counts business days in the inclusive range [start, end].
// It returns 0 when start is after end.
func (c *Calendar) CountBusinessDays(start, end time.Time) int {
	from, to := Day(start), Day(end)
	if from.After(to) {
		return 0
	}

	n := 0
	for d := from; !d.After(to); d = AddDays(d, 1) {
		if c.IsBusinessDay(d) {
			n++
		}
	}
	return n
}

// AddHoliday sets the holiday for date, replacing any existing label.
func (c *Calendar) AddHoliday(date time.Time, name string) {
	c.holidays[keyOf(date)] = name
}

// RemoveHoliday deletes the holiday on date. Absent dates are ignored.
func (c *Calendar) RemoveHoliday(date time.Time) {
	delete(c.holidays, keyOf(date))
}

// Holidays returns a snapshot of the whole table ordered by date.
func (c *Calendar) Holidays() []Holiday {
	out := make([]Holiday, 0, len(c.holidays))
	for k, name := range c.holidays {
		out = append(out, Holiday{Date: k.toTime(), Name: name})
	}
	sortHolidays(out)
	return out
}

// HolidaysInYear lists the holidays of the given year ordered by date.
func (c *Calendar) HolidaysInYear(year int) []Holiday {
	var out []Holiday
	for k, name := range c.holidays {
		if k.year == year {
			out = append(out, Holiday{Date: k.toTime(), Name: name})
		}
	}
	sortHolidays(out)
	return out
}

// NextHoliday returns the holiday with the smallest date on or after from.
func (c *Calendar) NextHoliday(from time.Time) (Holiday, bool) {
	return c.nextMatching(from, func(string) bool { return true })
}

// DaysUntilHoliday returns the number of calendar days from from to the next
// holiday on or after it. When name is not empty only holidays with that exact
// label are considered.
func (c *Calendar) DaysUntilHoliday(from time.Time, name string) (int, bool) {
	h, ok := c.nextMatching(from, func(n string) bool { return name == "" || n == name })
	if !ok {
		return 0, false
	}
	return DaysBetween(from, h.Date), true
}

func (c *Calendar) nextMatching(from time.Time, match func(string) bool) (Holiday, bool) {
	start := Day(from)
	var best Holiday
	found := false

	for k, name := range c.holidays {
		d := k.toTime()
		if d.Before(start) || !match(name) {
			continue
		}
		if !found || d.Before(best.Date) {
			best = Holiday{Date: d, Name: name}
			found = true
		}
	}
	return best, found
}

func sortHolidays(hs []Holiday) {
	slices.SortFunc(hs, func(a, b Holiday) int {
		return a.Date.Compare(b.Date)
	})
}
