package web

import (
	"net/http"
	"time"

	"hearth/internal/adapters/http/middleware"
	"hearth/internal/adapters/ics"
	"hearth/internal/application/projections"
	"hearth/internal/domain/event"
)

// handleCalendar handles GET /api/calendar?year=&month=: the complete
// month view model the front-end renders verbatim.
func handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	year, month, ok := parseYearMonth(r)
	if !ok {
		jsonError(w, "year and month query params are required (month 1-12)", http.StatusBadRequest)
		return
	}

	now := timeNow().In(options.Location)
	view, err := projections.QueryGetMonthView(r.Context(), year, month, now, options.WeekStart, projections.GetMonthViewDeps{
		EventStore: stores.EventStore,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	_, loggedIn := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"view":      view,
		"logged_in": loggedIn,
	})
}

// handleCalendarDay handles GET /api/calendar/day?date=YYYY-MM-DD: the
// day panel with full labels and rendered notes.
func handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date, err := time.Parse(event.DateLayout, r.URL.Query().Get("date"))
	if err != nil {
		jsonError(w, "date query param is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	detail, err := projections.QueryGetDayDetail(r.Context(), date, projections.GetDayDetailDeps{
		EventStore: stores.EventStore,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	// Notes travel as markdown in storage; the panel gets safe HTML.
	type dayEventDTO struct {
		projections.DayDetailEvent
		NotesHTML string `json:"notes_html,omitempty"`
	}
	events := make([]dayEventDTO, 0, len(detail.Events))
	for _, e := range detail.Events {
		events = append(events, dayEventDTO{DayDetailEvent: e, NotesHTML: renderNotes(e.Notes)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":      detail.Date,
		"day_label": detail.DayLabel,
		"events":    events,
	})
}

// feedWindow is how far the ICS feed reaches around today.
const (
	feedPastDays   = 90
	feedFutureDays = 366
)

// handleCalendarFeed handles GET /calendar.ics: a rolling window of
// events for phone calendar subscriptions.
func handleCalendarFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := timeNow().In(options.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	events, err := stores.EventStore.ListRange(r.Context(), today.AddDate(0, 0, -feedPastDays), today.AddDate(0, 0, feedFutureDays))
	if err != nil {
		domainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="hearth.ics"`)
	w.Write([]byte(ics.BuildFeed(events, options.Location, now)))
}
