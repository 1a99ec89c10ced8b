package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Max length constants.
const (
	MaxTitleLength = 200
	MaxNotesLength = 2000
)

// DateLayout is the civil-date wire format used throughout the calendar.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day wire format ("HH:MM", 24-hour).
const TimeLayout = "15:04"

// Sentinel errors reported by event stores and orchestrators.
var (
	ErrNotFound         = errors.New("event not found")
	ErrForbidden        = errors.New("only the event owner may change it")
	ErrStoreUnavailable = errors.New("event store unavailable")
)

// ValidationError marks bad or missing input fields. It is surfaced to the
// user as-is and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Event represents one calendar entry. An event belongs to exactly one
// calendar day; StartTime and EndTime are optional "HH:MM" values and
// EndTime is only meaningful when StartTime is set.
// INVARIANT: Title is non-empty and Date is set.
type Event struct {
	ID         string
	Title      string
	Date       time.Time // civil day, time-of-day component ignored
	StartTime  string    // "HH:MM" or "" for no time
	EndTime    string    // "HH:MM" or ""
	Notes      string    // optional markdown shown in the day detail view
	OwnerID    string
	OwnerName  string // denormalized for attribution
	OwnerColor string
	CreatedAt  time.Time
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, *ValidationError describing the first violation otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return validationf("event title is required")
	}
	if len(e.Title) > MaxTitleLength {
		return validationf("event title cannot exceed %d characters", MaxTitleLength)
	}
	if e.Date.IsZero() {
		return validationf("event date is required")
	}
	if e.StartTime != "" {
		if _, err := time.Parse(TimeLayout, e.StartTime); err != nil {
			return validationf("start time must be HH:MM")
		}
	}
	if e.EndTime != "" {
		if e.StartTime == "" {
			return validationf("end time requires a start time")
		}
		if _, err := time.Parse(TimeLayout, e.EndTime); err != nil {
			return validationf("end time must be HH:MM")
		}
		if e.EndTime < e.StartTime {
			return validationf("end time cannot be before start time")
		}
	}
	if len(e.Notes) > MaxNotesLength {
		return validationf("event notes cannot exceed %d characters", MaxNotesLength)
	}
	if e.OwnerID == "" {
		return validationf("event owner is required")
	}
	return nil
}

// DateKey returns the event's day in DateLayout form.
func (e Event) DateKey() string {
	return e.Date.Format(DateLayout)
}

// Label renders the event's inline display text:
// "{start} – {end} {title}" when both times are present,
// "{start} {title}" when only a start time is present, else the bare title.
// POST: times appear in 12-hour clock with AM/PM suffix
func (e Event) Label() string {
	switch {
	case e.StartTime != "" && e.EndTime != "":
		return Clock12(e.StartTime) + " – " + Clock12(e.EndTime) + " " + e.Title
	case e.StartTime != "":
		return Clock12(e.StartTime) + " " + e.Title
	default:
		return e.Title
	}
}

// Clock12 converts an "HH:MM" 24-hour value to a 12-hour clock string.
// Hours 0 and 12 both render as 12; minutes keep two digits.
// PRE: hhmm parses as TimeLayout (validated input)
func Clock12(hhmm string) string {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	suffix := "AM"
	if t.Hour() >= 12 {
		suffix = "PM"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), suffix)
}

// Before reports whether e sorts before other within the same day:
// events without a start time first, then start time ascending.
// Ties report false so a stable sort preserves arrival order.
func (e Event) Before(other Event) bool {
	if e.StartTime == "" && other.StartTime != "" {
		return true
	}
	if e.StartTime != "" && other.StartTime == "" {
		return false
	}
	return e.StartTime < other.StartTime
}
