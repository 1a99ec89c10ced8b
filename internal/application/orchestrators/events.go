package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hearth/internal/domain/event"
)

// EventStoreForMutations defines the store interface needed by the event
// orchestrators.
type EventStoreForMutations interface {
	Create(ctx context.Context, e event.Event) (event.Event, error)
	GetByID(ctx context.Context, id string) (event.Event, error)
	Update(ctx context.Context, e event.Event) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventDeps holds dependencies for the event orchestrators.
type EventDeps struct {
	EventStore EventStoreForMutations
}

// EventInput carries the user-editable fields of an event.
type EventInput struct {
	Title     string
	Date      string // DateLayout ("YYYY-MM-DD")
	StartTime string // "HH:MM" or ""
	EndTime   string // "HH:MM" or ""
	Notes     string
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &event.ValidationError{Msg: "event date is required"}
	}
	d, err := time.Parse(event.DateLayout, s)
	if err != nil {
		return time.Time{}, &event.ValidationError{Msg: "event date must be YYYY-MM-DD"}
	}
	return d, nil
}

// ExecuteCreateEvent validates input and persists a new event owned by the
// calling user.
// PRE: callerID identifies a logged-in roster member
// POST: returns the stored event with id, created_at, and owner display fields
func ExecuteCreateEvent(ctx context.Context, input EventInput, callerID string, deps EventDeps) (event.Event, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return event.Event{}, err
	}

	e := event.Event{
		Title:     input.Title,
		Date:      date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Notes:     input.Notes,
		OwnerID:   callerID,
	}
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}

	created, err := deps.EventStore.Create(ctx, e)
	if err != nil {
		return event.Event{}, err
	}

	slog.Info("event_mutation", "event", "created", "id", created.ID, "owner", callerID, "date", created.DateKey())
	return created, nil
}

// ExecuteUpdateEvent replaces the editable fields of an existing event.
// Only the owner may mutate it; this rule holds for every storage backend.
// POST: returns event.ErrNotFound for unknown ids, event.ErrForbidden for
// non-owners, the refreshed event otherwise
func ExecuteUpdateEvent(ctx context.Context, id string, input EventInput, callerID string, deps EventDeps) (event.Event, error) {
	existing, err := deps.EventStore.GetByID(ctx, id)
	if err != nil {
		return event.Event{}, err
	}
	if existing.OwnerID != callerID {
		slog.Info("event_mutation", "event", "update_forbidden", "id", id, "owner", existing.OwnerID, "caller", callerID)
		return event.Event{}, event.ErrForbidden
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return event.Event{}, err
	}

	existing.Title = input.Title
	existing.Date = date
	existing.StartTime = input.StartTime
	existing.EndTime = input.EndTime
	existing.Notes = input.Notes
	if err := existing.Validate(); err != nil {
		return event.Event{}, err
	}

	updated, err := deps.EventStore.Update(ctx, existing)
	if err != nil {
		return event.Event{}, err
	}

	slog.Info("event_mutation", "event", "updated", "id", id, "owner", callerID)
	return updated, nil
}

// ExecuteDeleteEvent removes an event after the owner check.
// POST: event.ErrNotFound for unknown ids, event.ErrForbidden for non-owners
func ExecuteDeleteEvent(ctx context.Context, id string, callerID string, deps EventDeps) error {
	existing, err := deps.EventStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != callerID {
		slog.Info("event_mutation", "event", "delete_forbidden", "id", id, "owner", existing.OwnerID, "caller", callerID)
		return event.ErrForbidden
	}

	if err := deps.EventStore.Delete(ctx, id); err != nil {
		// Deleted out from under us between the read and the delete;
		// report not-found so the UI re-fetches.
		if errors.Is(err, event.ErrNotFound) {
			return event.ErrNotFound
		}
		return err
	}

	slog.Info("event_mutation", "event", "deleted", "id", id, "owner", callerID)
	return nil
}
