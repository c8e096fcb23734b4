package engine

import "time"

// FeedEntry is one all-day event of the generated feed, decoupled from the
// iCalendar encoding so callers can list what the feed will contain.
type FeedEntry struct {
	// UID is stable across regenerations of the same holiday or deadline.
	UID string

	Summary     string
	Description string

	// Category is config.CategoryHoliday or config.CategoryDeadline.
	Category string

	// Date is the civil date of the event.
	Date time.Time

	// Reminder requests a DISPLAY alarm using the generator's trigger.
	Reminder bool
}
