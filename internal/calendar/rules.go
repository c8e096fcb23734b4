package calendar

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"
	"github.com/tartampluch/go-plazos/internal/config"
)

// Rule is a holiday that falls on the same month/day every year.
type Rule struct {
	Name  string
	Month time.Month
	Day   int
}

// EasterRule is a holiday defined as an offset in days from Easter Sunday.
type EasterRule struct {
	Name   string
	Offset int
}

// ChileanRules returns the fixed-date national holidays.
// Holidays that the law moves to the nearest Monday are listed on their
// nominal date; the seeded table remains the authority for years it covers.
func ChileanRules() []Rule {
	return []Rule{
		{"Año Nuevo", time.January, 1},
		{"Día del Trabajo", time.May, 1},
		{"Glorias Navales", time.May, 21},
		{"San Pedro y San Pablo", time.June, 29},
		{"Virgen del Carmen", time.July, 16},
		{"Asunción de la Virgen", time.August, 15},
		{"Fiestas Patrias", time.September, 18},
		{"Glorias del Ejército", time.September, 19},
		{"Encuentro de Dos Mundos", time.October, 12},
		{"Día de las Iglesias Evangélicas", time.October, 31},
		{"Todos los Santos", time.November, 1},
		{"Inmaculada Concepción", time.December, 8},
		{"Navidad", time.December, 25},
	}
}

// ChileanEasterRules returns the Easter-linked pair.
func ChileanEasterRules() []EasterRule {
	return []EasterRule{
		{"Viernes Santo", -2},
		{"Sábado Santo", -1},
	}
}

// GenerateYear expands fixed-date and Easter-linked rules into the holidays of one year.
func GenerateYear(year int, rules []Rule, easter []EasterRule) ([]Holiday, error) {
	start := Date(year, time.January, 1)
	until := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	var out []Holiday
	for _, r := range rules {
		rr, err := rrule.NewRRule(rrule.ROption{
			Freq:       rrule.YEARLY,
			Dtstart:    start,
			Until:      until,
			Bymonth:    []int{int(r.Month)},
			Bymonthday: []int{r.Day},
		})
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", config.ErrRuleExpand, r.Name, err)
		}
		for _, occ := range rr.All() {
			out = append(out, Holiday{Date: Day(occ), Name: r.Name})
		}
	}

	sunday := EasterSunday(year)
	for _, r := range easter {
		out = append(out, Holiday{Date: AddDays(sunday, r.Offset), Name: r.Name})
	}

	sortHolidays(out)
	return out, nil
}

// EasterSunday returns the Gregorian Easter Sunday for year
// (Meeus/Jones/Butcher algorithm).
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Date(year, time.Month(month), day)
}

// ExtendYears adds generated holidays for every year that has no entry yet.
// Years already present in the table are left untouched. It returns the
// number of holidays added.
func (c *Calendar) ExtendYears(years ...int) (int, error) {
	added := 0
	for _, y := range years {
		if len(c.HolidaysInYear(y)) > 0 {
			continue
		}
		hs, err := GenerateYear(y, ChileanRules(), ChileanEasterRules())
		if err != nil {
			return added, err
		}
		for _, h := range hs {
			c.AddHoliday(h.Date, h.Name)
		}
		added += len(hs)
		slog.Debug(config.MsgRulesExpanded,
			config.LogKeyComponent, config.CompCalendar,
			config.LogKeyYear, y,
			config.LogKeyCount, len(hs),
		)
	}
	return added, nil
}
