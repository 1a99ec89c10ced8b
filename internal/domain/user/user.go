package user

import (
	"errors"
	"strings"
	"time"
)

// Max length constants.
const (
	MaxNameLength = 100
)

// ErrNotFound is reported when a user id or name matches nobody on the roster.
var ErrNotFound = errors.New("user not found")

// User represents one family member. Login is name-selection only, so a
// user record carries no credentials — just a display name and the color
// used to attribute their events in the calendar.
// INVARIANT: Name is non-empty and unique within the roster.
type User struct {
	ID        string
	Name      string
	Color     string // "#RRGGBB" display color
	CreatedAt time.Time
}

// Validate checks the user's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("user name cannot be empty")
	}
	if len(u.Name) > MaxNameLength {
		return errors.New("user name cannot exceed 100 characters")
	}
	if !validHexColor(u.Color) {
		return errors.New("user color must be a #RRGGBB hex value")
	}
	return nil
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
