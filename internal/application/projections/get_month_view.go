package projections

import (
	"context"
	"fmt"
	"time"

	"hearth/internal/domain/calendar"
	"hearth/internal/domain/event"
)

// MonthViewEventStore defines the store interface needed by this projection.
type MonthViewEventStore interface {
	ListMonth(ctx context.Context, year int, month time.Month) ([]event.Event, error)
}

// GetMonthViewDeps holds dependencies for the projection.
type GetMonthViewDeps struct {
	EventStore MonthViewEventStore
}

// MonthViewCell is one rendered grid square.
type MonthViewCell struct {
	Date           string `json:"date"` // YYYY-MM-DD
	Day            int    `json:"day"`
	InCurrentMonth bool   `json:"in_current_month"`
	IsToday        bool   `json:"is_today"`

	Labels        []string `json:"labels"`
	OverflowLabel string   `json:"overflow_label,omitempty"` // "+N more", empty when all fit
	EventCount    int      `json:"event_count"`

	Events []MonthViewEvent `json:"events"`

	// Activation outcome for a tap on this cell, precomputed for both
	// login states so the front-end stays logic-free.
	ActivateLoggedIn  calendar.Activation `json:"activate_logged_in"`
	ActivateLoggedOut calendar.Activation `json:"activate_logged_out"`
}

// MonthViewEvent is the per-event payload inside a cell.
type MonthViewEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Label      string `json:"label"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	OwnerID    string `json:"owner_id"`
	OwnerName  string `json:"owner_name"`
	OwnerColor string `json:"owner_color"`
}

// MonthView is the complete render model for one month: grid cells plus
// header labels. It is recomputed per request and never cached.
type MonthView struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"` // 1-12
	MonthLabel    string          `json:"month_label"`
	WeekdayHeader []string        `json:"weekday_header"`
	Cells         []MonthViewCell `json:"cells"`
}

// QueryGetMonthView builds the month render model: grid construction,
// event bucketing, and the day-cell summary policy in one pass.
// Deterministic given now — the caller injects the clock and week start.
// PRE: month is a valid time.Month
// POST: len(Cells) is a multiple of 7; labels respect calendar.MaxDisplay
func QueryGetMonthView(ctx context.Context, year int, month time.Month, now time.Time, weekStart time.Weekday, deps GetMonthViewDeps) (MonthView, error) {
	events, err := deps.EventStore.ListMonth(ctx, year, month)
	if err != nil {
		return MonthView{}, err
	}

	cells := calendar.Bucket(calendar.MonthGrid(year, month, weekStart), events, now)

	view := MonthView{
		Year:          year,
		Month:         int(month),
		MonthLabel:    time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		WeekdayHeader: weekdayHeader(weekStart),
		Cells:         make([]MonthViewCell, 0, len(cells)),
	}

	for _, c := range cells {
		summary := calendar.Summarize(c)
		vc := MonthViewCell{
			Date:              c.Date.Format(event.DateLayout),
			Day:               c.Date.Day(),
			InCurrentMonth:    c.InCurrentMonth,
			IsToday:           c.IsToday,
			Labels:            summary.Labels,
			EventCount:        len(c.Events),
			Events:            make([]MonthViewEvent, 0, len(c.Events)),
			ActivateLoggedIn:  calendar.Activate(c, true),
			ActivateLoggedOut: calendar.Activate(c, false),
		}
		if summary.Overflow > 0 {
			vc.OverflowLabel = fmt.Sprintf("+%d more", summary.Overflow)
		}
		for _, e := range c.Events {
			vc.Events = append(vc.Events, MonthViewEvent{
				ID:         e.ID,
				Title:      e.Title,
				Label:      e.Label(),
				StartTime:  e.StartTime,
				EndTime:    e.EndTime,
				OwnerID:    e.OwnerID,
				OwnerName:  e.OwnerName,
				OwnerColor: e.OwnerColor,
			})
		}
		view.Cells = append(view.Cells, vc)
	}
	return view, nil
}

func weekdayHeader(weekStart time.Weekday) []string {
	header := make([]string, 7)
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(weekStart) + i) % 7)
		header[i] = day.String()[:3]
	}
	return header
}
