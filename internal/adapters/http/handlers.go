package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"hearth/internal/adapters/http/middleware"
	"hearth/internal/application/orchestrators"
	"hearth/internal/application/projections"
	"hearth/internal/domain/event"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderNotes converts event notes (markdown) to safe HTML for the client.
func renderNotes(notes string) string {
	if notes == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(notes), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	jsonError(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// domainError maps domain errors onto HTTP statuses. Anything
// unrecognized is an internal error.
func domainError(w http.ResponseWriter, err error) {
	var ve *event.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, event.ErrNotFound):
		jsonError(w, "event not found", http.StatusNotFound)
	case errors.Is(err, event.ErrForbidden):
		jsonError(w, "only the owner can change this event", http.StatusForbidden)
	case errors.Is(err, event.ErrStoreUnavailable):
		jsonError(w, "storage unavailable, try again", http.StatusServiceUnavailable)
	default:
		internalError(w, err)
	}
}

// userDTO is the wire shape of a roster member.
type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// handleUsers handles GET /api/users: the roster for the login screen.
func handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := stores.UserStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userDTO{ID: u.ID, Name: u.Name, Color: u.Color})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLogin handles POST /api/login. Picking a family member is the
// whole login: no password, matching the household trust model.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	u, err := orchestrators.ExecuteLogin(r.Context(), req.UserID, orchestrators.LoginDeps{
		UserStore: stores.UserStore,
	})
	if errors.Is(err, orchestrators.ErrUnknownUser) {
		jsonError(w, "unknown family member", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	token, err := sessions.Create(u.ID, u.Name, u.Color)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": userDTO{ID: u.ID, Name: u.Name, Color: u.Color},
	})
}

// handleLogout handles POST /api/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"user": nil})
}

// handleCurrentUser handles GET /api/current-user: `{user: ...}` when
// logged in, `{user: null}` when not. Never an error status — the
// front-end polls this on load.
func handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": userDTO{ID: sess.UserID, Name: sess.Name, Color: sess.Color},
	})
}

// handleSavedTitles handles GET /api/saved-titles: recent event titles
// for the composer. Logged out or on store failure it degrades to an
// empty list rather than erroring.
func handleSavedTitles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, []string{})
		return
	}

	titles := projections.QueryGetTitleSuggestions(r.Context(), sess.UserID, projections.GetTitleSuggestionsDeps{
		EventStore: stores.EventStore,
	})
	writeJSON(w, http.StatusOK, titles)
}
