package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hearth/internal/adapters/storage"
	domain "hearth/internal/domain/user"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// List returns the full roster ordered by creation, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, created_at FROM family_member ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID retrieves one family member.
// POST: returns domain.ErrNotFound when the id is unknown
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.getOne(ctx,
		`SELECT id, name, color, created_at FROM family_member WHERE id = ?`, id)
}

// GetByName retrieves one family member by display name.
// POST: returns domain.ErrNotFound when the name is unknown
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.User, error) {
	return s.getOne(ctx,
		`SELECT id, name, color, created_at FROM family_member WHERE name = ?`, name)
}

// Save inserts or updates a family member. Name collisions update the
// existing row's color (roster re-seeding is idempotent).
func (s *SQLiteStore) Save(ctx context.Context, u domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO family_member (id, name, color, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, color=excluded.color
		 ON CONFLICT(name) DO UPDATE SET color=excluded.color`,
		u.ID, u.Name, u.Color, u.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, query, arg)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

func scanUser(scan func(...any) error) (domain.User, error) {
	var u domain.User
	var createdAt string
	if err := scan(&u.ID, &u.Name, &u.Color, &createdAt); err != nil {
		return domain.User{}, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return u, nil
}
