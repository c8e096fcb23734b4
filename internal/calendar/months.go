package calendar

import "time"

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return Date(year, month+1, 0).Day()
}

// FirstOfMonth returns the first day of date's month.
func FirstOfMonth(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), 1)
}

// LastOfMonth returns the last day of date's month.
func LastOfMonth(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), DaysInMonth(date.Year(), date.Month()))
}

// MonthsBetween counts month boundaries from start to end, ignoring the day of month.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// QuartersBetween returns MonthsBetween divided by three, rounded down.
// Negative spans round toward the past: -1 month is -1 quarter.
func QuartersBetween(start, end time.Time) int {
	m := MonthsBetween(start, end)
	q := m / 3
	if m%3 != 0 && m < 0 {
		q--
	}
	return q
}
