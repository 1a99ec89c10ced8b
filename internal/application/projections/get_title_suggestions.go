package projections

import (
	"context"
	"log/slog"
)

// MaxSuggestions caps the saved-titles list returned to the composer.
const MaxSuggestions = 10

// SuggestionEventStore defines the store interface needed by this projection.
type SuggestionEventStore interface {
	ListTitlesByOwner(ctx context.Context, ownerID string, limit int) ([]string, error)
}

// GetTitleSuggestionsDeps holds dependencies for the projection.
type GetTitleSuggestionsDeps struct {
	EventStore SuggestionEventStore
}

// QueryGetTitleSuggestions returns the caller's most recently used event
// titles for the composer's autocomplete. Suggestions are a convenience,
// not a feature the page depends on: a store failure degrades to an
// empty list instead of an error.
func QueryGetTitleSuggestions(ctx context.Context, ownerID string, deps GetTitleSuggestionsDeps) []string {
	titles, err := deps.EventStore.ListTitlesByOwner(ctx, ownerID, MaxSuggestions)
	if err != nil {
		slog.Warn("title_suggestions_degraded", "owner_id", ownerID, "error", err)
		return []string{}
	}
	if titles == nil {
		return []string{}
	}
	return titles
}
