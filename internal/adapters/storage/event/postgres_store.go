package event

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "hearth/internal/domain/event"
)

// PostgresStore implements Store against a hosted Postgres backend using a
// pgx connection pool. Behavior is identical to SQLiteStore; only where
// the data lives differs.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over an open pgx pool.
// PRE: pool is connected and InitPostgresSchema has been applied
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// InitPostgresSchema creates the calendar tables if they do not exist.
func InitPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS family_member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date DATE NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL REFERENCES family_member(id),
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_event_date ON event(date);
	`)
	if err != nil {
		return storeErr("init postgres schema", err)
	}
	return nil
}

// Create inserts a new event inside a transaction, assigning ID and CreatedAt.
func (s *PostgresStore) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	e.ID = newID()
	e.CreatedAt = timeNow().UTC()
	if err := e.Validate(); err != nil {
		return domain.Event{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Event{}, storeErr("create event", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO event (id, title, date, start_time, end_time, notes, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Title, e.Date, e.StartTime, e.EndTime, e.Notes, e.OwnerID, e.CreatedAt)
	if err != nil {
		return domain.Event{}, storeErr("create event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Event{}, storeErr("create event", err)
	}
	return s.GetByID(ctx, e.ID)
}

// GetByID retrieves an event with its owner's display fields.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT e.id, e.title, e.date, e.start_time, e.end_time, e.notes,
		        e.owner_id, m.name, m.color, e.created_at
		 FROM event e JOIN family_member m ON e.owner_id = m.id
		 WHERE e.id = $1`, id)

	var e domain.Event
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.StartTime, &e.EndTime, &e.Notes,
		&e.OwnerID, &e.OwnerName, &e.OwnerColor, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Event{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Event{}, storeErr("get event", err)
	}
	return e, nil
}

// ListMonth returns the month's events ordered by date then start time.
func (s *PostgresStore) ListMonth(ctx context.Context, year int, month time.Month) ([]domain.Event, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.ListRange(ctx, first, first.AddDate(0, 1, 0))
}

// ListRange returns events dated in [from, to).
func (s *PostgresStore) ListRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT e.id, e.title, e.date, e.start_time, e.end_time, e.notes,
		        e.owner_id, m.name, m.color, e.created_at
		 FROM event e JOIN family_member m ON e.owner_id = m.id
		 WHERE e.date >= $1 AND e.date < $2
		 ORDER BY e.date, e.start_time, e.created_at`, from, to)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.StartTime, &e.EndTime, &e.Notes,
			&e.OwnerID, &e.OwnerName, &e.OwnerColor, &e.CreatedAt); err != nil {
			return nil, storeErr("list events", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update replaces the mutable fields of an existing event.
func (s *PostgresStore) Update(ctx context.Context, e domain.Event) (domain.Event, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE event SET title = $1, date = $2, start_time = $3, end_time = $4, notes = $5
		 WHERE id = $6`,
		e.Title, e.Date, e.StartTime, e.EndTime, e.Notes, e.ID)
	if err != nil {
		return domain.Event{}, storeErr("update event", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Event{}, domain.ErrNotFound
	}
	return s.GetByID(ctx, e.ID)
}

// Delete removes an event.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete event", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListTitlesByOwner returns distinct titles of the owner's events, most
// recently used first.
func (s *PostgresStore) ListTitlesByOwner(ctx context.Context, ownerID string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT title, MAX(created_at) AS last_used
		 FROM event
		 WHERE owner_id = $1
		 GROUP BY title
		 ORDER BY last_used DESC
		 LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, storeErr("list titles", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		var lastUsed time.Time
		if err := rows.Scan(&title, &lastUsed); err != nil {
			return nil, storeErr("list titles", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}
