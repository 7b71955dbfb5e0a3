// Package replies declares the repository contract for thread replies.
package replies

import (
	"context"

	"github.com/oakbb/oakboard/internal/server/models"
)

// Repository defines persistence operations for replies.
type Repository interface {
	// Create inserts a reply and fills in the generated ID.
	Create(ctx context.Context, reply *models.Reply) (*models.Reply, error)

	// GetByID returns a reply by primary key, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Reply, error)

	// ListByThread returns a thread's replies in posting order.
	ListByThread(ctx context.Context, threadID int64) ([]*models.Reply, error)

	// LatestIDForThread returns the id of the thread's newest reply, or
	// nil when the thread has none.
	LatestIDForThread(ctx context.Context, threadID int64) (*int64, error)

	// Delete removes one reply.
	Delete(ctx context.Context, id int64) error
}
