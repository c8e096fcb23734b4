package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
)

// TestHolidayUID verifies UIDs depend on both date and name, and nothing else.
func TestHolidayUID(t *testing.T) {
	h := calendar.Holiday{Date: calendar.Date(2025, 9, 18), Name: "Independencia Nacional"}

	uid := holidayUID(h)
	assert.Equal(t, uid, holidayUID(h), "Same input must hash identically")
	assert.True(t, strings.HasSuffix(uid, "-2025-09-18@"+config.ICalDomain))

	renamed := h
	renamed.Name = "Fiestas Patrias"
	assert.NotEqual(t, uid, holidayUID(renamed))

	moved := h
	moved.Date = calendar.Date(2026, 9, 18)
	assert.NotEqual(t, uid, holidayUID(moved))

	// Time of day must not leak into the UID.
	noon := h
	noon.Date = time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, uid, holidayUID(noon))
}

func TestCoveredDays(t *testing.T) {
	start := calendar.Date(2025, 12, 24)

	tests := []struct {
		name string
		end  string
		want int
	}{
		{"no DTEND", "", 1},
		{"single all-day", "20251225", 1},
		{"three days", "20251227", 3},
		{"end before start", "20251220", 1},
		{"runaway span is capped", "20261224", config.MaxImportSpanDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := ical.NewEvent()
			if tt.end != "" {
				prop := ical.NewProp(ical.PropDateTimeEnd)
				prop.SetValueType(ical.ValueDate)
				prop.Value = tt.end
				event.Props.Set(prop)
			}

			days := coveredDays(start, *event)
			require.Len(t, days, tt.want)
			assert.Equal(t, start, days[0])
			for i := 1; i < len(days); i++ {
				assert.Equal(t, calendar.AddDays(days[i-1], 1), days[i])
			}
		})
	}
}

func TestEntries_Ordering(t *testing.T) {
	cal := calendar.New(
		calendar.Holiday{Date: calendar.Date(2025, 12, 25), Name: "Navidad"},
		calendar.Holiday{Date: calendar.Date(2025, 1, 1), Name: "Año Nuevo"},
	)
	g := &Generator{Clock: fixedClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))}

	entries := g.Entries(cal, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, calendar.Date(2025, 1, 1), entries[0].Date)
	assert.Equal(t, config.CategoryHoliday, entries[0].Category)
	assert.False(t, entries[0].Reminder)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }
