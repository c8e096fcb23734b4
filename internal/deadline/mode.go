package deadline

import (
	"strconv"
	"strings"

	"github.com/tartampluch/go-plazos/internal/config"
)

// Mode selects which days count towards a term.
type Mode int

const (
	// Calendar counts every day ("días corridos").
	Calendar Mode = iota + 1
	// Business skips weekends and holidays ("días hábiles").
	Business
	// Judicial skips Sundays and holidays; Saturdays count.
	Judicial
)

// Modes lists every valid mode.
func Modes() []Mode {
	return []Mode{Calendar, Business, Judicial}
}

// ParseMode maps a wire name to a Mode. Matching is case-insensitive and accepts
// the English aliases "calendar" and "business".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case config.ModeCalendar, config.ModeCalendarAlias:
		return Calendar, nil
	case config.ModeBusiness, config.ModeBusinessAlias, "hábil":
		return Business, nil
	case config.ModeJudicial:
		return Judicial, nil
	}
	return 0, &InvalidModeError{Mode: s}
}

// Valid reports whether m is one of the three counting modes.
func (m Mode) Valid() bool {
	return m >= Calendar && m <= Judicial
}

// String returns the wire name ("corrido", "habil", "judicial").
func (m Mode) String() string {
	switch m {
	case Calendar:
		return config.ModeCalendar
	case Business:
		return config.ModeBusiness
	case Judicial:
		return config.ModeJudicial
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &InvalidModeError{Mode: m.String()}
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
