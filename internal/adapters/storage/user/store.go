package user

import (
	"context"

	domain "hearth/internal/domain/user"
)

// Store persists the family roster.
type Store interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByName(ctx context.Context, name string) (domain.User, error)
	Save(ctx context.Context, u domain.User) error
}
