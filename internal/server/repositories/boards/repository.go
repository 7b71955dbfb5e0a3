// Package boards declares the repository contract for forum boards.
package boards

import (
	"context"

	"github.com/oakbb/oakboard/internal/server/models"
)

// Repository defines persistence operations for boards.
type Repository interface {
	// List returns all boards ordered by display order.
	List(ctx context.Context) ([]*models.Board, error)

	// GetByID returns a board by primary key, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Board, error)

	// Create inserts a board at the end of the display order and fills in
	// the generated ID.
	Create(ctx context.Context, board *models.Board) (*models.Board, error)

	// Update changes name, description, and required role.
	Update(ctx context.Context, id int64, name, description string, role models.Role) error

	// UpdateDisplayOrder moves a board within the listing.
	UpdateDisplayOrder(ctx context.Context, id int64, displayOrder int) error

	// Delete removes a board; its threads cascade.
	Delete(ctx context.Context, id int64) error
}
