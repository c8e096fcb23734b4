package docket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/deadline"
)

var (
	// ErrNotFound is returned (possibly wrapped) when no record has the given ID.
	ErrNotFound = errors.New(config.ErrRecordNotFound)
	// ErrInvalidRecord is returned when a draft is missing required fields.
	ErrInvalidRecord = errors.New(config.ErrRecordInvalid)
)

// Store persists records. Implementations return ErrNotFound for unknown IDs.
type Store interface {
	Get(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, r Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Record, error)
}

// Clock supplies the timestamp stamped on saved records.
type Clock interface {
	Now() time.Time
}

// Service schedules deadlines and keeps their due dates in step with the calendar.
type Service struct {
	store Store
	calc  *deadline.Calculator
	clock Clock
}

// NewService wires a store and calculator together.
func NewService(store Store, calc *deadline.Calculator, clock Clock) *Service {
	return &Service{store: store, calc: calc, clock: clock}
}

// Schedule validates d, computes its due date and saves a new record.
func (s *Service) Schedule(ctx context.Context, d Draft) (Record, error) {
	if d.Title == "" {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidRecord, config.ErrEmptyTitle)
	}
	if d.Start.IsZero() {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidRecord, config.ErrEmptyStart)
	}

	days, mode := d.Days, d.Mode
	if d.Proceeding != "" && days == 0 {
		if term, ok := deadline.LookupTerm(d.Proceeding); ok {
			if n, fixed := term.Days(); fixed {
				days, mode = n, term.Mode
			}
		}
	}

	now := s.clock.Now().UTC()
	r := Record{
		ID:         uuid.NewString(),
		Case:       d.Case,
		Title:      d.Title,
		Notes:      d.Notes,
		Proceeding: d.Proceeding,
		Mode:       mode,
		Days:       days,
		Start:      calendar.Day(d.Start),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.recompute(&r); err != nil {
		return Record{}, err
	}
	if err := s.store.Save(ctx, r); err != nil {
		return Record{}, err
	}

	slog.Info(config.MsgRecordSaved,
		config.LogKeyComponent, config.CompDocket,
		config.LogKeyID, r.ID,
		config.LogKeyDue, calendar.FormatDate(r.Due),
	)
	return r, nil
}

// Suspend marks the record suspended for days extra days and recomputes its due date.
func (s *Service) Suspend(ctx context.Context, id string, days int) (Record, error) {
	if days < 0 {
		return Record{}, &deadline.InvalidArgumentError{Field: "suspension_days", Value: days, Reason: config.ErrNegativeSuspend}
	}
	return s.update(ctx, id, func(r *Record) {
		r.Suspended = true
		r.SuspensionDays = days
	})
}

// Resume clears a suspension and recomputes the due date from the original term.
func (s *Service) Resume(ctx context.Context, id string) (Record, error) {
	return s.update(ctx, id, func(r *Record) {
		r.Suspended = false
		r.SuspensionDays = 0
	})
}

// MarkNotified records that the reminder for id has been delivered.
func (s *Service) MarkNotified(ctx context.Context, id string) (Record, error) {
	return s.update(ctx, id, func(r *Record) { r.Notified = true })
}

func (s *Service) update(ctx context.Context, id string, mutate func(*Record)) (Record, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	mutate(&r)
	if err := s.recompute(&r); err != nil {
		return Record{}, err
	}
	r.UpdatedAt = s.clock.Now().UTC()
	if err := s.store.Save(ctx, r); err != nil {
		return Record{}, err
	}
	slog.Info(config.MsgRecordSaved,
		config.LogKeyComponent, config.CompDocket,
		config.LogKeyID, r.ID,
		config.LogKeyDue, calendar.FormatDate(r.Due),
	)
	return r, nil
}

// Recompute refreshes every stored due date against the current calendar,
// typically after holidays were added or removed. It returns how many changed.
func (s *Service) Recompute(ctx context.Context) (int, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, r := range records {
		before := r.Due
		if err := s.recompute(&r); err != nil {
			return changed, fmt.Errorf("%s: %w", r.ID, err)
		}
		if r.Due.Equal(before) {
			continue
		}
		r.UpdatedAt = s.clock.Now().UTC()
		if err := s.store.Save(ctx, r); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func (s *Service) recompute(r *Record) error {
	due, err := s.calc.Compute(r.Request())
	if err != nil {
		return err
	}
	r.Due = due
	return nil
}

// Get returns the record with the given ID.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.store.Get(ctx, id)
}

// List returns every record ordered by due date, then title.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sortByDue(records)
	return records, nil
}

// Delete removes the record with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info(config.MsgRecordDeleted,
		config.LogKeyComponent, config.CompDocket,
		config.LogKeyID, id,
	)
	return nil
}

// Upcoming lists non-suspended records due within [today, today+withinDays],
// soonest first. A non-positive window uses the default of seven days.
func (s *Service) Upcoming(ctx context.Context, today time.Time, withinDays int) ([]Record, error) {
	if withinDays <= 0 {
		withinDays = config.DefaultUpcomingWindow
	}
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	today = calendar.Day(today)
	limit := calendar.AddDays(today, withinDays)

	var out []Record
	for _, r := range records {
		if r.Suspended || r.Due.Before(today) || r.Due.After(limit) {
			continue
		}
		out = append(out, r)
	}
	sortByDue(out)
	return out, nil
}

func sortByDue(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		if c := a.Due.Compare(b.Due); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
}
