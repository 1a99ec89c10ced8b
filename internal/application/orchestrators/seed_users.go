package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hearth/internal/domain/user"
)

// UserStoreForSeeding defines the store interface needed by roster seeding.
type UserStoreForSeeding interface {
	GetByName(ctx context.Context, name string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// SeedUsersDeps holds dependencies for ExecuteSeedUsers.
type SeedUsersDeps struct {
	UserStore UserStoreForSeeding
}

// RosterEntry is one configured family member.
type RosterEntry struct {
	Name  string
	Color string
}

// ExecuteSeedUsers upserts the configured roster. Existing members keep
// their id (events stay attributed); color changes are applied.
// POST: every roster entry exists in the store; idempotent
func ExecuteSeedUsers(ctx context.Context, roster []RosterEntry, deps SeedUsersDeps) error {
	for _, entry := range roster {
		u := user.User{
			Name:  entry.Name,
			Color: entry.Color,
		}
		if existing, err := deps.UserStore.GetByName(ctx, entry.Name); err == nil {
			u.ID = existing.ID
			u.CreatedAt = existing.CreatedAt
		} else {
			u.ID = uuid.New().String()
			u.CreatedAt = time.Now().UTC()
		}

		if err := u.Validate(); err != nil {
			return fmt.Errorf("roster entry %q: %w", entry.Name, err)
		}
		if err := deps.UserStore.Save(ctx, u); err != nil {
			return fmt.Errorf("seed user %q: %w", entry.Name, err)
		}
	}
	slog.Info("roster_seeded", "count", len(roster))
	return nil
}
