package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "hearth/internal/domain/user"
)

// PostgresStore implements Store against a hosted Postgres backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over an open pgx pool.
// PRE: pool is connected and the schema has been applied
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// List returns the full roster ordered by creation, oldest first.
func (s *PostgresStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, color, created_at FROM family_member ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Color, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID retrieves one family member.
// POST: returns domain.ErrNotFound when the id is unknown
func (s *PostgresStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.getOne(ctx,
		`SELECT id, name, color, created_at FROM family_member WHERE id = $1`, id)
}

// GetByName retrieves one family member by display name.
// POST: returns domain.ErrNotFound when the name is unknown
func (s *PostgresStore) GetByName(ctx context.Context, name string) (domain.User, error) {
	return s.getOne(ctx,
		`SELECT id, name, color, created_at FROM family_member WHERE name = $1`, name)
}

// Save inserts or updates a family member, keyed by id with a name-collision
// fallback so roster re-seeding stays idempotent.
func (s *PostgresStore) Save(ctx context.Context, u domain.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE family_member SET color = $2 WHERE name = $1`, u.Name, u.Color)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO family_member (id, name, color, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, color = excluded.color`,
		u.ID, u.Name, u.Color, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Color, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
