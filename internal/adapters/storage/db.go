package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the database interface used by all SQLite-backed stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// migration is one schema step. MigrateDB applies steps strictly above the
// version recorded in SQLite's user_version pragma, so each runs at most once.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
	CREATE TABLE IF NOT EXISTS family_member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES family_member(id)
	);

	CREATE INDEX IF NOT EXISTS idx_event_date ON event(date);
	`,
	},
}

// LatestSchemaVersion returns the schema version MigrateDB migrates to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB brings the database schema up to the latest version.
// PRE: db is a valid, open SQLite connection
// POST: user_version == LatestSchemaVersion(), all tables exist
func MigrateDB(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply schema v%d: %w", m.version, err)
		}
		// PRAGMA does not accept placeholders.
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("record schema v%d: %w", m.version, err)
		}
	}
	return nil
}
