package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
)

// Override is a user-maintained change to the holiday table. An inactive
// override removes its date from the calendar instead of adding it.
type Override struct {
	Date   time.Time
	Name   string
	Kind   string
	Active bool
}

// HolidayStore persists holiday overrides.
type HolidayStore struct {
	db *sql.DB
}

// NewHolidayStore creates a store over an open database.
func NewHolidayStore(db *sql.DB) *HolidayStore {
	return &HolidayStore{db: db}
}

// Save inserts or replaces the override for o.Date.
func (s *HolidayStore) Save(ctx context.Context, o Override) error {
	kind := o.Kind
	if kind == "" {
		kind = config.HolidayKindNational
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO holiday_override (date, name, kind, active) VALUES (?, ?, ?, ?) ON CONFLICT(date) DO UPDATE SET name=excluded.name, kind=excluded.kind, active=excluded.active",
		calendar.FormatDate(o.Date), o.Name, kind, boolToInt(o.Active),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return nil
}

// Delete forgets the override for date. Missing rows are not an error.
func (s *HolidayStore) Delete(ctx context.Context, date time.Time) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM holiday_override WHERE date = ?", calendar.FormatDate(date)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return nil
}

// List returns every override ordered by date.
func (s *HolidayStore) List(ctx context.Context) ([]Override, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date, name, kind, active FROM holiday_override ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	defer rows.Close()

	var results []Override
	for rows.Next() {
		var (
			o       Override
			dateStr string
			active  int
		)
		if err := rows.Scan(&dateStr, &o.Name, &o.Kind, &active); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
		}
		if o.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, err
		}
		o.Active = active != 0
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return results, nil
}

// ApplyTo replays the stored overrides onto cal and returns how many were applied.
func (s *HolidayStore) ApplyTo(ctx context.Context, cal *calendar.Calendar) (int, error) {
	overrides, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, o := range overrides {
		if o.Active {
			cal.AddHoliday(o.Date, o.Name)
		} else {
			cal.RemoveHoliday(o.Date)
		}
	}

	slog.Debug(config.MsgOverridesApply,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyCount, len(overrides),
	)
	return len(overrides), nil
}
