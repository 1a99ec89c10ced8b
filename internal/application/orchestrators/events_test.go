package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hearth/internal/domain/event"
)

type mockEventStore struct {
	events  map[string]event.Event
	nextID  int
	deleted []string
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{events: map[string]event.Event{}}
}

func (m *mockEventStore) Create(ctx context.Context, e event.Event) (event.Event, error) {
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	m.nextID++
	e.ID = fmt.Sprintf("id-%d", m.nextID)
	e.CreatedAt = time.Now().UTC()
	m.events[e.ID] = e
	return e, nil
}

func (m *mockEventStore) GetByID(ctx context.Context, id string) (event.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	return e, nil
}

func (m *mockEventStore) Update(ctx context.Context, e event.Event) (event.Event, error) {
	if _, ok := m.events[e.ID]; !ok {
		return event.Event{}, event.ErrNotFound
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *mockEventStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return event.ErrNotFound
	}
	delete(m.events, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func validInput() EventInput {
	return EventInput{
		Title:     "Swimming",
		Date:      "2024-11-08",
		StartTime: "16:00",
		EndTime:   "17:00",
		Notes:     "Bring goggles",
	}
}

func TestExecuteCreateEvent(t *testing.T) {
	store := newMockEventStore()

	created, err := ExecuteCreateEvent(context.Background(), validInput(), "u1", EventDeps{EventStore: store})
	if err != nil {
		t.Fatalf("ExecuteCreateEvent: %v", err)
	}
	if created.ID == "" {
		t.Error("created event has no id")
	}
	if created.OwnerID != "u1" {
		t.Errorf("owner = %s, want caller", created.OwnerID)
	}
	if created.DateKey() != "2024-11-08" {
		t.Errorf("date = %s", created.DateKey())
	}
}

func TestExecuteCreateEvent_Validation(t *testing.T) {
	store := newMockEventStore()
	deps := EventDeps{EventStore: store}

	cases := []struct {
		name   string
		mutate func(*EventInput)
	}{
		{"missing date", func(in *EventInput) { in.Date = "" }},
		{"malformed date", func(in *EventInput) { in.Date = "08/11/2024" }},
		{"empty title", func(in *EventInput) { in.Title = "  " }},
		{"end before start", func(in *EventInput) { in.StartTime = "17:00"; in.EndTime = "16:00" }},
		{"end without start", func(in *EventInput) { in.StartTime = ""; in.EndTime = "17:00" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := ExecuteCreateEvent(context.Background(), in, "u1", deps)
			if !event.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
	if len(store.events) != 0 {
		t.Errorf("store has %d events, want none persisted", len(store.events))
	}
}

func TestExecuteUpdateEvent(t *testing.T) {
	store := newMockEventStore()
	deps := EventDeps{EventStore: store}
	created, err := ExecuteCreateEvent(context.Background(), validInput(), "u1", deps)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	in := validInput()
	in.Title = "Swimming gala"
	in.Date = "2024-11-09"
	updated, err := ExecuteUpdateEvent(context.Background(), created.ID, in, "u1", deps)
	if err != nil {
		t.Fatalf("ExecuteUpdateEvent: %v", err)
	}
	if updated.Title != "Swimming gala" || updated.DateKey() != "2024-11-09" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.OwnerID != "u1" {
		t.Errorf("owner changed to %s", updated.OwnerID)
	}
}

func TestExecuteUpdateEvent_Forbidden(t *testing.T) {
	store := newMockEventStore()
	deps := EventDeps{EventStore: store}
	created, err := ExecuteCreateEvent(context.Background(), validInput(), "u1", deps)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = ExecuteUpdateEvent(context.Background(), created.ID, validInput(), "u2", deps)
	if !errors.Is(err, event.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if got := store.events[created.ID].Title; got != "Swimming" {
		t.Errorf("title = %q, event was mutated by non-owner", got)
	}
}

func TestExecuteUpdateEvent_NotFound(t *testing.T) {
	deps := EventDeps{EventStore: newMockEventStore()}
	_, err := ExecuteUpdateEvent(context.Background(), "missing", validInput(), "u1", deps)
	if !errors.Is(err, event.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExecuteDeleteEvent(t *testing.T) {
	store := newMockEventStore()
	deps := EventDeps{EventStore: store}
	created, err := ExecuteCreateEvent(context.Background(), validInput(), "u1", deps)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := ExecuteDeleteEvent(context.Background(), created.ID, "u2", deps); !errors.Is(err, event.ErrForbidden) {
		t.Fatalf("non-owner delete err = %v, want ErrForbidden", err)
	}
	if err := ExecuteDeleteEvent(context.Background(), created.ID, "u1", deps); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := ExecuteDeleteEvent(context.Background(), created.ID, "u1", deps); !errors.Is(err, event.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
