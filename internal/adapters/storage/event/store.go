package event

import (
	"context"
	"time"

	domain "hearth/internal/domain/event"
)

// Store persists calendar events. Implementations enrich every returned
// event with the owner's display name and color; ownership rules are NOT
// enforced here — the orchestrators own them uniformly across backends.
type Store interface {
	// Create persists an event without an ID and returns it with ID and
	// CreatedAt assigned. Fails with *domain.ValidationError when title,
	// date, or owner is missing.
	Create(ctx context.Context, e domain.Event) (domain.Event, error)
	// GetByID returns domain.ErrNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (domain.Event, error)
	// ListMonth returns every event dated in [year-month-01, next-month-01),
	// ordered by date then start time (untimed events first).
	ListMonth(ctx context.Context, year int, month time.Month) ([]domain.Event, error)
	// ListRange returns events dated in [from, to), same ordering as ListMonth.
	ListRange(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	// Update replaces the mutable fields of the event with e.ID and returns
	// the refreshed record. Fails with domain.ErrNotFound for an unknown id.
	Update(ctx context.Context, e domain.Event) (domain.Event, error)
	// Delete fails with domain.ErrNotFound for an unknown id.
	Delete(ctx context.Context, id string) error
	// ListTitlesByOwner returns the owner's distinct event titles, most
	// recently used first, capped at limit.
	ListTitlesByOwner(ctx context.Context, ownerID string, limit int) ([]string, error)
}
