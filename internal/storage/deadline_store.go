package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/deadline"
	"github.com/tartampluch/go-plazos/internal/docket"
)

const deadlineColumns = `id, case_ref, title, notes, proceeding, mode, days, start_date, due_date,
	suspended, suspension_days, notified, created_at, updated_at`

// DeadlineStore implements docket.Store using SQLite.
type DeadlineStore struct {
	db *sql.DB
}

var _ docket.Store = (*DeadlineStore)(nil)

// NewDeadlineStore creates a store over an open database.
func NewDeadlineStore(db *sql.DB) *DeadlineStore {
	return &DeadlineStore{db: db}
}

// Get retrieves a record by ID, or docket.ErrNotFound.
func (s *DeadlineStore) Get(ctx context.Context, id string) (docket.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+deadlineColumns+" FROM deadline WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return docket.Record{}, fmt.Errorf("%s: %w", id, docket.ErrNotFound)
	}
	if err != nil {
		return docket.Record{}, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return r, nil
}

// Save inserts or updates a record.
func (s *DeadlineStore) Save(ctx context.Context, r docket.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deadline (`+deadlineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			case_ref=excluded.case_ref, title=excluded.title, notes=excluded.notes,
			proceeding=excluded.proceeding, mode=excluded.mode, days=excluded.days,
			start_date=excluded.start_date, due_date=excluded.due_date,
			suspended=excluded.suspended, suspension_days=excluded.suspension_days,
			notified=excluded.notified, updated_at=excluded.updated_at`,
		r.ID, r.Case, r.Title, r.Notes, string(r.Proceeding), r.Mode.String(), r.Days,
		calendar.FormatDate(r.Start), calendar.FormatDate(r.Due),
		boolToInt(r.Suspended), r.SuspensionDays, boolToInt(r.Notified),
		r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return nil
}

// Delete removes a record, or reports docket.ErrNotFound.
func (s *DeadlineStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM deadline WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", id, docket.ErrNotFound)
	}
	return nil
}

// List retrieves all records ordered by due date.
func (s *DeadlineStore) List(ctx context.Context) ([]docket.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+deadlineColumns+" FROM deadline ORDER BY due_date, title")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	defer rows.Close()

	var results []docket.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (docket.Record, error) {
	var (
		r                                        docket.Record
		proceeding, mode                         string
		startStr, dueStr, createdStr, updatedStr string
		suspended, notified                      int
	)
	err := sc.Scan(&r.ID, &r.Case, &r.Title, &r.Notes, &proceeding, &mode, &r.Days,
		&startStr, &dueStr, &suspended, &r.SuspensionDays, &notified, &createdStr, &updatedStr)
	if err != nil {
		return docket.Record{}, err
	}

	if r.Mode, err = deadline.ParseMode(mode); err != nil {
		return docket.Record{}, err
	}
	if r.Start, err = calendar.ParseDate(startStr); err != nil {
		return docket.Record{}, err
	}
	if r.Due, err = calendar.ParseDate(dueStr); err != nil {
		return docket.Record{}, err
	}
	r.Proceeding = deadline.Proceeding(proceeding)
	r.Suspended = suspended != 0
	r.Notified = notified != 0
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return docket.Record{}, err
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return docket.Record{}, err
	}
	return r, nil
}
