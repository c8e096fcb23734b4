package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/docket"
)

// SourceConfig describes where a holiday feed is imported from.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to a local .ics file
	WebURL    string // Remote .ics feed
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Generator converts calendars and deadline records to iCalendar and back.
type Generator struct {
	Clock   Clock          // Interface for time mocking.
	Fetcher HolidayFetcher // Interface for network abstraction.

	// ReminderTrigger is the ISO-8601 duration of deadline alarms (e.g. "-P1D").
	// Empty disables alarms.
	ReminderTrigger string

	// FormatHoliday and FormatDeadline let callers inject localized summaries.
	FormatHoliday  func(name string) string
	FormatDeadline func(title, caseRef string) string
}

// BuildFeed renders the holidays of the previous, current and next year plus
// every non-suspended deadline record as an iCalendar document.
func (g *Generator) BuildFeed(ctx context.Context, cal *calendar.Calendar, records []docket.Record) ([]byte, error) {
	start := time.Now()
	now := g.Clock.Now()

	entries := g.Entries(cal, records)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		var buf bytes.Buffer
		// A valid empty VCALENDAR keeps clients from flagging the feed as broken.
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), nil
	}

	ic := newCalendar()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	stats := struct{ holidays, deadlines int }{}
	for _, e := range entries {
		event := g.createEvent(e)
		event.Props.Set(dtStampProp)
		ic.Children = append(ic.Children, event.Component)

		if e.Category == config.CategoryHoliday {
			stats.holidays++
		} else {
			stats.deadlines++
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(ic); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgFeedBuilt,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyHolidays, stats.holidays),
			slog.Int(config.LogKeyDeadlines, stats.deadlines),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// Entries lists the events BuildFeed would emit, holidays first, in date order.
func (g *Generator) Entries(cal *calendar.Calendar, records []docket.Record) []FeedEntry {
	currentYear := g.Clock.Now().Year()

	var entries []FeedEntry
	for y := currentYear - config.DefaultFeedYearsBk; y <= currentYear+config.DefaultFeedYearsFw; y++ {
		for _, h := range cal.HolidaysInYear(y) {
			entries = append(entries, g.holidayEntry(h))
		}
	}
	for _, r := range records {
		if r.Suspended {
			continue
		}
		entries = append(entries, g.deadlineEntry(r))
	}
	return entries
}

func (g *Generator) holidayEntry(h calendar.Holiday) FeedEntry {
	summary := fmt.Sprintf(config.FallbackHolidaySummary, h.Name)
	if g.FormatHoliday != nil {
		summary = g.FormatHoliday(h.Name)
	}
	return FeedEntry{
		UID:      holidayUID(h),
		Summary:  summary,
		Category: config.CategoryHoliday,
		Date:     h.Date,
	}
}

func (g *Generator) deadlineEntry(r docket.Record) FeedEntry {
	title := r.Title
	if title == "" {
		title = config.FallbackName
	}
	summary := fmt.Sprintf(config.FallbackDeadlineSummary, title)
	if g.FormatDeadline != nil {
		summary = g.FormatDeadline(title, r.Case)
	}
	return FeedEntry{
		UID:         fmt.Sprintf(config.FormatUID, r.ID, calendar.FormatDate(r.Due), config.ICalDomain),
		Summary:     summary,
		Description: fmt.Sprintf(config.FormatDeadlineDesc, r.Case, r.Days, r.Mode, calendar.FormatDate(r.Start)),
		Category:    config.CategoryDeadline,
		Date:        r.Due,
		Reminder:    true,
	}
}

// holidayUID hashes the date and name so regenerated feeds keep the same UIDs.
func holidayUID(h calendar.Holiday) string {
	date := calendar.FormatDate(h.Date)
	input := fmt.Sprintf(config.FormatHashInput, h.Name, date, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), date, config.ICalDomain)
}

func newCalendar() *ical.Calendar {
	ic := ical.NewCalendar()
	ic.Props.SetText(config.PropVersion, config.ICalVersion)
	ic.Props.SetText(config.PropProdid, config.ICalProdid)
	ic.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	ic.Props.SetText(config.PropCalScale, config.ICalScale)
	ic.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	ic.Props.Set(refreshProp)
	return ic
}

func (g *Generator) createEvent(e FeedEntry) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, e.UID)
	event.Props.SetText(config.PropSummary, e.Summary)
	event.Props.SetText(config.PropCategories, e.Category)
	if e.Description != "" {
		event.Props.SetText(config.PropDescription, e.Description)
	}

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(e.Date)
	event.Props.Set(dtStartProp)

	if e.Reminder && g.ReminderTrigger != "" {
		addAlarm(event, g.ReminderTrigger, e.Summary)
	}
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// ImportHolidays reads an iCalendar holiday feed and adds every event date to
// cal. It returns the number of dates added.
func (g *Generator) ImportHolidays(ctx context.Context, src SourceConfig, cal *calendar.Calendar) (int, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, src.Mode,
	)
	log.InfoContext(ctx, config.MsgImportStarted)

	reader, err := g.acquireStream(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%s: %w", config.ErrICalParse, err)
	}
	defer func() { _ = reader.Close() }()

	holidays, skipped, err := parseHolidayFeed(ctx, reader)
	if err != nil {
		return 0, err
	}
	for _, h := range holidays {
		cal.AddHoliday(h.Date, h.Name)
	}

	log.Info(config.MsgImportDone,
		config.LogKeyCount, len(holidays),
		config.LogKeySkipped, skipped,
	)
	return len(holidays), nil
}

// acquireStream opens the appropriate data source based on configuration.
func (g *Generator) acquireStream(ctx context.Context, src SourceConfig) (io.ReadCloser, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(src.LocalPath)
	case config.SourceModeWeb:
		if src.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, src.WebURL, src.WebUser, src.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

// parseHolidayFeed decodes every VCALENDAR in r. Events without a usable
// DTSTART are skipped and counted; multi-day all-day events yield one holiday
// per covered day.
func parseHolidayFeed(ctx context.Context, r io.Reader) ([]calendar.Holiday, int, error) {
	dec := ical.NewDecoder(r)

	var (
		holidays []calendar.Holiday
		skipped  int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		ic, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", config.ErrICalParse, err)
		}

		for _, event := range ic.Events() {
			start, err := event.DateTimeStart(time.UTC)
			if err != nil || start.IsZero() {
				skipped++
				slog.Debug(config.MsgImportSkipped,
					config.LogKeyComponent, config.CompEngine,
					config.LogKeyError, err)
				continue
			}

			name, err := event.Props.Text(config.PropSummary)
			if err != nil || name == "" {
				name = config.FallbackName
			}

			for _, day := range coveredDays(start, event) {
				holidays = append(holidays, calendar.Holiday{Date: day, Name: name})
			}
		}
	}
	return holidays, skipped, nil
}

// coveredDays expands [DTSTART, DTEND) into civil dates. Events without a
// usable DTEND cover their start date only.
func coveredDays(start time.Time, event ical.Event) []time.Time {
	first := calendar.Day(start)
	days := []time.Time{first}

	endProp := event.Props.Get(ical.PropDateTimeEnd)
	if endProp == nil {
		return days
	}
	end, err := endProp.DateTime(time.UTC)
	if err != nil {
		return days
	}

	span := calendar.DaysBetween(first, end)
	if span > config.MaxImportSpanDays {
		span = config.MaxImportSpanDays
	}
	for i := 1; i < span; i++ {
		days = append(days, calendar.AddDays(first, i))
	}
	return days
}
