package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hearth/internal/adapters/storage"
	domain "hearth/internal/domain/event"
)

// Overridable in tests.
var timeNow = time.Now
var newID = func() string { return uuid.New().String() }

const selectColumns = `e.id, e.title, e.date, e.start_time, e.end_time, e.notes,
	 e.owner_id, m.name, m.color, e.created_at`

// SQLiteStore implements Store using SQLite — the on-device backend.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a new event, assigning its ID and CreatedAt.
// POST: the returned event carries owner name and color
func (s *SQLiteStore) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	e.ID = newID()
	e.CreatedAt = timeNow().UTC()
	if err := e.Validate(); err != nil {
		return domain.Event{}, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (id, title, date, start_time, end_time, notes, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.DateKey(), e.StartTime, e.EndTime, e.Notes,
		e.OwnerID, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return domain.Event{}, storeErr("create event", err)
	}
	return s.GetByID(ctx, e.ID)
}

// GetByID retrieves an event with its owner's display fields.
// POST: returns domain.ErrNotFound when the id is unknown
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+`
		 FROM event e JOIN family_member m ON e.owner_id = m.id
		 WHERE e.id = ?`, id)
	e, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Event{}, storeErr("get event", err)
	}
	return e, nil
}

// ListMonth returns the month's events ordered by date then start time.
func (s *SQLiteStore) ListMonth(ctx context.Context, year int, month time.Month) ([]domain.Event, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.ListRange(ctx, first, first.AddDate(0, 1, 0))
}

// ListRange returns events dated in [from, to).
func (s *SQLiteStore) ListRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+`
		 FROM event e JOIN family_member m ON e.owner_id = m.id
		 WHERE e.date >= ? AND e.date < ?
		 ORDER BY e.date, e.start_time, e.created_at`,
		from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	if err != nil {
		return nil, storeErr("list events", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, storeErr("list events", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update replaces the mutable fields of an existing event.
// POST: returns the refreshed event, domain.ErrNotFound for an unknown id
func (s *SQLiteStore) Update(ctx context.Context, e domain.Event) (domain.Event, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE event SET title = ?, date = ?, start_time = ?, end_time = ?, notes = ?
		 WHERE id = ?`,
		e.Title, e.DateKey(), e.StartTime, e.EndTime, e.Notes, e.ID)
	if err != nil {
		return domain.Event{}, storeErr("update event", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Event{}, storeErr("update event", err)
	}
	if n == 0 {
		return domain.Event{}, domain.ErrNotFound
	}
	return s.GetByID(ctx, e.ID)
}

// Delete removes an event.
// POST: returns domain.ErrNotFound when the id is unknown
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete event", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete event", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListTitlesByOwner returns distinct titles of the owner's events, most
// recently used first.
func (s *SQLiteStore) ListTitlesByOwner(ctx context.Context, ownerID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, MAX(created_at) AS last_used
		 FROM event
		 WHERE owner_id = ?
		 GROUP BY title
		 ORDER BY last_used DESC
		 LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, storeErr("list titles", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title, lastUsed string
		if err := rows.Scan(&title, &lastUsed); err != nil {
			return nil, storeErr("list titles", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func scanEvent(scan func(...any) error) (domain.Event, error) {
	var e domain.Event
	var date, createdAt string
	if err := scan(&e.ID, &e.Title, &date, &e.StartTime, &e.EndTime, &e.Notes,
		&e.OwnerID, &e.OwnerName, &e.OwnerColor, &createdAt); err != nil {
		return domain.Event{}, err
	}
	e.Date, _ = time.Parse(domain.DateLayout, date)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// storeErr wraps driver failures in ErrStoreUnavailable while keeping
// the underlying cause in the message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}
