package projections

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type mockTitleStore struct {
	ownerID string
	limit   int
	titles  []string
	err     error
}

func (m *mockTitleStore) ListTitlesByOwner(ctx context.Context, ownerID string, limit int) ([]string, error) {
	m.ownerID, m.limit = ownerID, limit
	return m.titles, m.err
}

func TestQueryGetTitleSuggestions(t *testing.T) {
	store := &mockTitleStore{titles: []string{"Swimming", "Piano"}}

	got := QueryGetTitleSuggestions(context.Background(), "u1", GetTitleSuggestionsDeps{EventStore: store})

	if !reflect.DeepEqual(got, []string{"Swimming", "Piano"}) {
		t.Errorf("titles = %v", got)
	}
	if store.ownerID != "u1" {
		t.Errorf("owner = %s", store.ownerID)
	}
	if store.limit != MaxSuggestions {
		t.Errorf("limit = %d, want %d", store.limit, MaxSuggestions)
	}
}

func TestQueryGetTitleSuggestions_DegradesOnFailure(t *testing.T) {
	store := &mockTitleStore{err: errors.New("db gone")}

	got := QueryGetTitleSuggestions(context.Background(), "u1", GetTitleSuggestionsDeps{EventStore: store})

	if got == nil || len(got) != 0 {
		t.Errorf("titles = %v, want empty slice", got)
	}
}

func TestQueryGetTitleSuggestions_NilBecomesEmpty(t *testing.T) {
	got := QueryGetTitleSuggestions(context.Background(), "u1", GetTitleSuggestionsDeps{EventStore: &mockTitleStore{}})
	if got == nil {
		t.Error("titles = nil, want empty slice")
	}
}
