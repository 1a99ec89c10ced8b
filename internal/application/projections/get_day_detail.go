package projections

import (
	"context"
	"time"

	"hearth/internal/domain/event"
)

// DayDetailEventStore defines the store interface needed by this projection.
type DayDetailEventStore interface {
	ListRange(ctx context.Context, from, to time.Time) ([]event.Event, error)
}

// GetDayDetailDeps holds dependencies for the projection.
type GetDayDetailDeps struct {
	EventStore DayDetailEventStore
}

// DayDetailEvent is the full per-event payload for the day panel,
// including notes, which the month view omits.
type DayDetailEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Label      string `json:"label"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Notes      string `json:"notes,omitempty"`
	OwnerID    string `json:"owner_id"`
	OwnerName  string `json:"owner_name"`
	OwnerColor string `json:"owner_color"`
}

// DayDetail is the render model for a single day's panel.
type DayDetail struct {
	Date     string           `json:"date"` // YYYY-MM-DD
	DayLabel string           `json:"day_label"`
	Events   []DayDetailEvent `json:"events"`
}

// QueryGetDayDetail lists every event on one calendar day, in the same
// order the month grid shows them: untimed first, then by start time.
func QueryGetDayDetail(ctx context.Context, date time.Time, deps GetDayDetailDeps) (DayDetail, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	events, err := deps.EventStore.ListRange(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return DayDetail{}, err
	}

	detail := DayDetail{
		Date:     day.Format(event.DateLayout),
		DayLabel: day.Format("Monday, January 2"),
		Events:   make([]DayDetailEvent, 0, len(events)),
	}
	for _, e := range events {
		detail.Events = append(detail.Events, DayDetailEvent{
			ID:         e.ID,
			Title:      e.Title,
			Label:      e.Label(),
			StartTime:  e.StartTime,
			EndTime:    e.EndTime,
			Notes:      e.Notes,
			OwnerID:    e.OwnerID,
			OwnerName:  e.OwnerName,
			OwnerColor: e.OwnerColor,
		})
	}
	return detail, nil
}
