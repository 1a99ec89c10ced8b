package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"hearth/internal/domain/user"
)

// UserStoreForLogin defines the store interface needed by Login.
type UserStoreForLogin interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	UserStore UserStoreForLogin
}

// ErrUnknownUser is returned when the selected user is not on the roster.
var ErrUnknownUser = errors.New("unknown family member")

// ExecuteLogin resolves a name-selection login. There are no credentials —
// picking a roster member IS the authentication, which is the whole trust
// model of a household calendar.
// PRE: userID is the id the client selected
// POST: returns the full user record for session creation
func ExecuteLogin(ctx context.Context, userID string, deps LoginDeps) (user.User, error) {
	if userID == "" {
		return user.User{}, ErrUnknownUser
	}

	u, err := deps.UserStore.GetByID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		slog.Info("auth_event", "event", "login_failed", "user_id", userID, "reason", "not_found")
		return user.User{}, ErrUnknownUser
	}
	if err != nil {
		return user.User{}, err
	}

	slog.Info("auth_event", "event", "login_success", "user_id", u.ID, "name", u.Name)
	return u, nil
}
