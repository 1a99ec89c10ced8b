package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"hearth/internal/adapters/http/middleware"
	"hearth/internal/application/orchestrators"
	"hearth/internal/domain/event"
)

// eventDTO is the wire shape of an event.
type eventDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Notes      string `json:"notes,omitempty"`
	NotesHTML  string `json:"notes_html,omitempty"`
	Label      string `json:"label"`
	OwnerID    string `json:"owner_id"`
	OwnerName  string `json:"owner_name"`
	OwnerColor string `json:"owner_color"`
	CreatedAt  string `json:"created_at"`
}

func toEventDTO(e event.Event) eventDTO {
	return eventDTO{
		ID:         e.ID,
		Title:      e.Title,
		Date:       e.DateKey(),
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		Notes:      e.Notes,
		NotesHTML:  renderNotes(e.Notes),
		Label:      e.Label(),
		OwnerID:    e.OwnerID,
		OwnerName:  e.OwnerName,
		OwnerColor: e.OwnerColor,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// eventInputDTO is the editable-fields payload for create and update.
type eventInputDTO struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Notes     string `json:"notes"`
}

func (in eventInputDTO) toInput() orchestrators.EventInput {
	return orchestrators.EventInput{
		Title:     in.Title,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Notes:     in.Notes,
	}
}

// parseYearMonth reads required year and month query params. Month is
// 1-12 on the wire.
func parseYearMonth(r *http.Request) (int, time.Month, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

// handleEvents handles GET (month list) and POST (create) for /api/events.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		year, month, ok := parseYearMonth(r)
		if !ok {
			jsonError(w, "year and month query params are required (month 1-12)", http.StatusBadRequest)
			return
		}

		events, err := stores.EventStore.ListMonth(r.Context(), year, month)
		if err != nil {
			domainError(w, err)
			return
		}
		out := make([]eventDTO, 0, len(events))
		for _, e := range events {
			out = append(out, toEventDTO(e))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		sess, ok := middleware.GetSessionFromContext(r.Context())
		if !ok {
			jsonError(w, "login required", http.StatusUnauthorized)
			return
		}

		var in eventInputDTO
		if err := strictDecode(r, &in); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		created, err := orchestrators.ExecuteCreateEvent(r.Context(), in.toInput(), sess.UserID, orchestrators.EventDeps{
			EventStore: stores.EventStore,
		})
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventDTO(created))

	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEventItem handles GET, PUT, and DELETE for /api/events/{id}.
func handleEventItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if id == "" || strings.Contains(id, "/") {
		jsonError(w, "event not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := stores.EventStore.GetByID(r.Context(), id)
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventDTO(e))

	case http.MethodPut:
		sess, ok := middleware.GetSessionFromContext(r.Context())
		if !ok {
			jsonError(w, "login required", http.StatusUnauthorized)
			return
		}

		var in eventInputDTO
		if err := strictDecode(r, &in); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		updated, err := orchestrators.ExecuteUpdateEvent(r.Context(), id, in.toInput(), sess.UserID, orchestrators.EventDeps{
			EventStore: stores.EventStore,
		})
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventDTO(updated))

	case http.MethodDelete:
		sess, ok := middleware.GetSessionFromContext(r.Context())
		if !ok {
			jsonError(w, "login required", http.StatusUnauthorized)
			return
		}

		if err := orchestrators.ExecuteDeleteEvent(r.Context(), id, sess.UserID, orchestrators.EventDeps{
			EventStore: stores.EventStore,
		}); err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
