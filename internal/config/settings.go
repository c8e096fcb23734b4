package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-editable configuration stored in plazos.yaml.
type Settings struct {
	// Storage
	DatabasePath string `yaml:"database_path"`

	// Presentation
	Language string `yaml:"language"`

	// Server
	Server ServerSettings `yaml:"server"`

	// Feed
	ReminderTrigger string `yaml:"reminder_trigger"` // ISO8601 duration, e.g. "-P1D"
	UpcomingWindow  int    `yaml:"upcoming_window"`  // days

	// Calendar adjustments applied on top of the seeded table
	Calendar CalendarSettings `yaml:"calendar"`

	// Optional remote holiday feed
	Import ImportSettings `yaml:"import"`
}

// ServerSettings configures the feed/API server.
type ServerSettings struct {
	BindAddr string `yaml:"bind_addr"`
	Port     string `yaml:"port"`
}

// CalendarSettings tweaks the holiday table without touching the database.
type CalendarSettings struct {
	ExtraHolidays  []HolidayEntry `yaml:"extra_holidays"`
	RemovedDates   []string       `yaml:"removed_dates"`  // YYYY-MM-DD
	GenerateYears  []int          `yaml:"generate_years"` // expanded from rules when missing from the seed
	DisableSeeding bool           `yaml:"disable_seeding"`
}

// HolidayEntry is a single date/name pair as written in YAML.
type HolidayEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// ImportSettings describes an iCalendar holiday source.
type ImportSettings struct {
	Mode      string `yaml:"mode"` // SourceModeLocal or SourceModeWeb
	LocalPath string `yaml:"local_path"`
	WebURL    string `yaml:"web_url"`
	WebUser   string `yaml:"web_user"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		DatabasePath:    DefaultDBFile,
		Language:        DefaultLanguage,
		Server:          ServerSettings{BindAddr: LocalhostBindAddr, Port: DefaultPort},
		ReminderTrigger: DefaultReminder,
		UpcomingWindow:  DefaultUpcomingWindow,
	}
}

// LoadSettings reads a YAML settings file. A missing file yields the defaults;
// fields absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug(MsgSettingsMissing,
			LogKeyComponent, CompConfig,
			LogKeyPath, path)
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	s.fillDefaults()

	if err := s.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}

	slog.Debug(MsgSettingsLoaded,
		LogKeyComponent, CompConfig,
		LogKeyPath, path)
	return s, nil
}

// fillDefaults restores defaults for keys explicitly emptied in the file.
func (s *Settings) fillDefaults() {
	d := DefaultSettings()
	if s.DatabasePath == "" {
		s.DatabasePath = d.DatabasePath
	}
	if s.Language == "" {
		s.Language = d.Language
	}
	if s.Server.BindAddr == "" {
		s.Server.BindAddr = d.Server.BindAddr
	}
	if s.Server.Port == "" {
		s.Server.Port = d.Server.Port
	}
	if s.UpcomingWindow <= 0 {
		s.UpcomingWindow = d.UpcomingWindow
	}
}

// Validate checks values the rest of the application relies on.
func (s Settings) Validate() error {
	return ValidatePort(s.Server.Port)
}

// ValidatePort checks that port is a number within the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
