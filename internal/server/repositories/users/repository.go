// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/oakbb/oakboard/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create inserts a new user and fills in the generated ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns a user by primary key, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername returns a user by the unique username (exact,
	// case-sensitive match), or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// CountOwners returns how many accounts currently hold the Owner role.
	CountOwners(ctx context.Context) (int64, error)

	// UpdateProfile changes displayName, bio, email, and color.
	UpdateProfile(ctx context.Context, id int64, displayName, bio, email string, color int) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// UpdateRole sets the user's role tier.
	UpdateRole(ctx context.Context, id int64, role models.Role) error

	// Delete removes the account; sessions, threads, replies, and follow
	// records go with it via foreign keys.
	Delete(ctx context.Context, id int64) error
}
