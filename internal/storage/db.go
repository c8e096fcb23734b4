// Package storage persists deadlines and holiday overrides in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-plazos/internal/config"
	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	memoryDSN  = ":memory:"
	dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
)

const schema = `
CREATE TABLE IF NOT EXISTS deadline (
	id TEXT PRIMARY KEY,
	case_ref TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	proceeding TEXT NOT NULL DEFAULT '',
	mode TEXT NOT NULL,
	days INTEGER NOT NULL,
	start_date TEXT NOT NULL,
	due_date TEXT NOT NULL,
	suspended INTEGER NOT NULL DEFAULT 0,
	suspension_days INTEGER NOT NULL DEFAULT 0,
	notified INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deadline_due ON deadline (due_date);

CREATE TABLE IF NOT EXISTS holiday_override (
	date TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	kind TEXT NOT NULL DEFAULT 'nacional',
	active INTEGER NOT NULL DEFAULT 1
);
`

// Open connects to the database at path and applies the schema.
// The special path ":memory:" yields a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != memoryDSN {
		dsn += dsnPragmas
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}
	if path == memoryDSN {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.Info(config.MsgDBReady,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyPath, path,
	)
	return db, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBMigrate, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
