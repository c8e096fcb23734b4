package calendar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-plazos/internal/calendar"
)

func d(y int, m time.Month, day int) time.Time {
	return calendar.Date(y, m, day)
}

// eachDay calls fn for every date in [from, to].
func eachDay(from, to time.Time, fn func(time.Time)) {
	for x := from; !x.After(to); x = calendar.AddDays(x, 1) {
		fn(x)
	}
}

func TestIsHoliday(t *testing.T) {
	cal := calendar.NewChilean()

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"New Year 2025", d(2025, 1, 1), true},
		{"Fiestas Patrias 2025", d(2025, 9, 18), true},
		{"Glorias del Ejército 2025", d(2025, 9, 19), true},
		{"Good Friday 2026", d(2026, 4, 3), true},
		{"ordinary Sunday", d(2025, 6, 15), false},
		{"ordinary Monday", d(2025, 1, 6), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsHoliday(tt.date))
		})
	}
}

func TestIsHoliday_IgnoresTimeAndLocation(t *testing.T) {
	cal := calendar.NewChilean()
	santiago := time.FixedZone("CLT", -3*60*60)

	assert.True(t, cal.IsHoliday(time.Date(2025, 9, 18, 23, 30, 0, 0, santiago)))
	assert.True(t, cal.IsHoliday(time.Date(2025, 9, 18, 0, 1, 0, 0, time.UTC)))
}

func TestIsWeekend(t *testing.T) {
	cal := calendar.New()

	assert.True(t, cal.IsWeekend(d(2025, 1, 4)), "Saturday")
	assert.True(t, cal.IsWeekend(d(2025, 1, 5)), "Sunday")
	assert.False(t, cal.IsWeekend(d(2025, 1, 6)), "Monday")
	assert.False(t, cal.IsWeekend(d(2025, 1, 3)), "Friday")
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, calendar.ISOWeekday(d(2025, 1, 6)))
	assert.Equal(t, 6, calendar.ISOWeekday(d(2025, 1, 4)))
	assert.Equal(t, 7, calendar.ISOWeekday(d(2025, 1, 5)))
}

func TestIsBusinessDay(t *testing.T) {
	cal := calendar.NewChilean()

	assert.True(t, cal.IsBusinessDay(d(2025, 1, 6)), "Plain Monday")
	assert.False(t, cal.IsBusinessDay(d(2025, 1, 4)), "Saturday")
	assert.False(t, cal.IsBusinessDay(d(2025, 1, 1)), "New Year")
}

func TestIsBusinessDay_Definition(t *testing.T) {
	cal := calendar.NewChilean()

	eachDay(d(2024, 12, 1), d(2027, 1, 31), func(x time.Time) {
		want := !cal.IsHoliday(x) && !cal.IsWeekend(x)
		require.Equal(t, want, cal.IsBusinessDay(x), "date %s", calendar.FormatDate(x))
	})
}

func TestIsJudicialDay(t *testing.T) {
	cal := calendar.NewChilean()

	assert.True(t, cal.IsJudicialDay(d(2025, 1, 4)), "Saturday counts")
	assert.False(t, cal.IsJudicialDay(d(2025, 1, 5)), "Sunday does not")
	assert.False(t, cal.IsJudicialDay(d(2025, 9, 20)), "Holiday on a Saturday does not")
	assert.True(t, cal.IsJudicialDay(d(2025, 1, 6)))
}

func TestNextBusinessDay(t *testing.T) {
	cal := calendar.NewChilean()

	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"Saturday to Monday", d(2025, 1, 4), d(2025, 1, 6)},
		{"Sunday to Monday", d(2025, 1, 5), d(2025, 1, 6)},
		{"New Year to Thursday", d(2025, 1, 1), d(2025, 1, 2)},
		{"Business day moves forward", d(2025, 1, 6), d(2025, 1, 7)},
		{"Across Fiestas Patrias", d(2025, 9, 17), d(2025, 9, 22)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.NextBusinessDay(tt.from))
		})
	}
}

func TestNextBusinessDay_Properties(t *testing.T) {
	cal := calendar.NewChilean()

	eachDay(d(2024, 12, 1), d(2026, 12, 31), func(x time.Time) {
		next := cal.NextBusinessDay(x)
		require.True(t, next.After(x))
		require.True(t, cal.IsBusinessDay(next))
		eachDay(calendar.AddDays(x, 1), calendar.AddDays(next, -1), func(between time.Time) {
			require.False(t, cal.IsBusinessDay(between), "business day %s skipped", calendar.FormatDate(between))
		})
	})
}

func TestNextBusinessDay_LongHolidayRun(t *testing.T) {
	cal := calendar.New()
	// Two full weeks of administrative holidays must not trip any scan bound.
	eachDay(d(2030, 3, 1), d(2030, 3, 14), func(x time.Time) {
		cal.AddHoliday(x, "Feria judicial")
	})

	assert.Equal(t, d(2030, 3, 15), cal.NextBusinessDay(d(2030, 2, 28)))
}

func TestPreviousBusinessDay(t *testing.T) {
	cal := calendar.NewChilean()

	assert.Equal(t, d(2025, 1, 3), cal.PreviousBusinessDay(d(2025, 1, 6)))
	assert.Equal(t, d(2025, 9, 17), cal.PreviousBusinessDay(d(2025, 9, 22)))
	assert.Equal(t, d(2024, 12, 31), cal.PreviousBusinessDay(d(2025, 1, 2)))

	eachDay(d(2025, 1, 1), d(2025, 12, 31), func(x time.Time) {
		prev := cal.PreviousBusinessDay(x)
		require.True(t, prev.Before(x))
		require.True(t, cal.IsBusinessDay(prev))
	})
}

func TestCountBusinessDays(t *testing.T) {
	cal := calendar.NewChilean()

	// Monday to Sunday of an ordinary week.
	assert.Equal(t, 5, cal.CountBusinessDays(d(2025, 1, 6), d(2025, 1, 12)))

	// Fiestas Patrias week: 18, 19 and 20 are holidays.
	n := cal.CountBusinessDays(d(2025, 9, 15), d(2025, 9, 21))
	assert.Less(t, n, 7)
	assert.Equal(t, 3, n)

	// Single day range is inclusive.
	assert.Equal(t, 1, cal.CountBusinessDays(d(2025, 1, 6), d(2025, 1, 6)))
}

func TestCountBusinessDays_ReversedRange(t *testing.T) {
	cal := calendar.NewChilean()
	assert.Equal(t, 0, cal.CountBusinessDays(d(2025, 1, 12), d(2025, 1, 6)))
}

func TestAddRemoveHoliday_RoundTrip(t *testing.T) {
	cal := calendar.NewChilean()
	x := d(2025, 6, 20)
	require.False(t, cal.IsHoliday(x))

	cal.AddHoliday(x, "Día Nacional de los Pueblos Indígenas")
	require.True(t, cal.IsHoliday(x))
	cal.RemoveHoliday(x)
	assert.False(t, cal.IsHoliday(x))
}

func TestAddHoliday_Overwrites(t *testing.T) {
	cal := calendar.New()
	x := d(2025, 7, 1)

	cal.AddHoliday(x, "first")
	cal.AddHoliday(x, "second")

	name, ok := cal.HolidayName(x)
	require.True(t, ok)
	assert.Equal(t, "second", name)
	assert.Equal(t, 1, cal.Len())
}

func TestRemoveHoliday_Absent(t *testing.T) {
	cal := calendar.NewChilean()
	n := cal.Len()
	cal.RemoveHoliday(d(2025, 6, 15))
	assert.Equal(t, n, cal.Len())
}

func TestCalendars_AreIsolated(t *testing.T) {
	a := calendar.NewChilean()
	b := calendar.NewChilean()

	a.RemoveHoliday(d(2025, 9, 18))
	assert.False(t, a.IsHoliday(d(2025, 9, 18)))
	assert.True(t, b.IsHoliday(d(2025, 9, 18)), "Mutating one calendar must not leak into another")

	c := b.Clone()
	c.AddHoliday(d(2025, 6, 20), "x")
	assert.False(t, b.IsHoliday(d(2025, 6, 20)))
}

func TestHolidaysInYear(t *testing.T) {
	cal := calendar.NewChilean()

	hs := cal.HolidaysInYear(2025)
	assert.GreaterOrEqual(t, len(hs), 15)

	dates := make(map[time.Time]string, len(hs))
	for _, h := range hs {
		assert.Equal(t, 2025, h.Date.Year())
		dates[h.Date] = h.Name
	}
	assert.Contains(t, dates, d(2025, 1, 1))
	assert.Contains(t, dates, d(2025, 9, 18))
	assert.Contains(t, dates, d(2025, 12, 25))
	assert.Equal(t, "Viernes Santo", dates[d(2025, 4, 18)])
	assert.Equal(t, "Sábado Santo", dates[d(2025, 4, 19)])

	assert.Len(t, cal.HolidaysInYear(2026), 14)
	assert.Empty(t, cal.HolidaysInYear(1999))
}

func TestNextHoliday(t *testing.T) {
	cal := calendar.NewChilean()

	h, ok := cal.NextHoliday(d(2025, 1, 2))
	require.True(t, ok)
	assert.Equal(t, d(2025, 4, 18), h.Date)
	assert.Equal(t, "Viernes Santo", h.Name)

	// The start date itself is eligible.
	h, ok = cal.NextHoliday(d(2025, 9, 18))
	require.True(t, ok)
	assert.Equal(t, d(2025, 9, 18), h.Date)

	_, ok = cal.NextHoliday(d(2027, 1, 1))
	assert.False(t, ok, "No holidays after the seeded range")
}

func TestDaysUntilHoliday(t *testing.T) {
	cal := calendar.NewChilean()

	n, ok := cal.DaysUntilHoliday(d(2025, 1, 2), "")
	require.True(t, ok)
	assert.Equal(t, 106, n)

	n, ok = cal.DaysUntilHoliday(d(2025, 9, 1), "Navidad")
	require.True(t, ok)
	assert.Equal(t, 115, n)

	_, ok = cal.DaysUntilHoliday(d(2025, 1, 1), "Carnaval")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	x, err := calendar.ParseDate("2025-09-18")
	require.NoError(t, err)
	assert.Equal(t, d(2025, 9, 18), x)

	x, err = calendar.ParseDate("20250918")
	require.NoError(t, err)
	assert.Equal(t, d(2025, 9, 18), x)

	_, err = calendar.ParseDate("2025-02-30")
	assert.Error(t, err)
	_, err = calendar.ParseDate("mañana")
	assert.Error(t, err)
}

func TestLoadHolidays(t *testing.T) {
	src := `
holidays:
  - {date: "2027-01-01", name: "Año Nuevo"}
  - {date: "2027-03-26", name: "Viernes Santo"}
`
	hs, err := calendar.LoadHolidays(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, d(2027, 1, 1), hs[0].Date)

	_, err = calendar.LoadHolidays(strings.NewReader(`holidays: [{date: "nope", name: x}]`))
	assert.Error(t, err)
}

func TestChileanHolidays_ReturnsCopy(t *testing.T) {
	a := calendar.ChileanHolidays()
	a[0].Name = "mutated"
	b := calendar.ChileanHolidays()
	assert.NotEqual(t, "mutated", b[0].Name)
}
