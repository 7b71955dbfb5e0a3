// Package sessions declares the repository contract for persisted browser
// sessions with sliding expiry.
package sessions

import (
	"context"
	"time"

	"github.com/oakbb/oakboard/internal/server/models"
)

// Repository defines operations for issuing, resolving, renewing, and
// revoking session tokens.
type Repository interface {
	// Create stores a new session for userID expiring at now+validity.
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error

	// FindByToken returns the session row together with its user, or
	// common.ErrorNotFound. Expiry is not checked here; callers decide
	// what an expired row means.
	FindByToken(ctx context.Context, token string) (*models.Session, *models.User, error)

	// Extend pushes the session's expiry to now+validity.
	Extend(ctx context.Context, token string, validity time.Duration) error

	// Delete removes one session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser removes every session belonging to userID.
	DeleteByUser(ctx context.Context, userID int64) error

	// DeleteExpired removes all sessions whose expiry has passed and
	// returns how many rows went away. Safe to run concurrently with
	// lookups.
	DeleteExpired(ctx context.Context) (int64, error)

	// UpdateUnread stores the cached unread counter and its timestamp.
	UpdateUnread(ctx context.Context, sessionID int64, count int, at time.Time) error
}
