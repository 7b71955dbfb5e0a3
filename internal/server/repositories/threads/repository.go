// Package threads declares the repository contract for forum threads.
package threads

import (
	"context"

	"github.com/oakbb/oakboard/internal/server/models"
)

// Repository defines persistence operations for threads, including
// maintenance of the denormalized latest-reply pointer.
type Repository interface {
	// Create inserts a thread and fills in the generated ID.
	Create(ctx context.Context, thread *models.Thread) (*models.Thread, error)

	// GetByID returns a thread by primary key, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Thread, error)

	// ListByBoard returns a board's threads, most recent first.
	ListByBoard(ctx context.Context, boardID int64) ([]*models.Thread, error)

	// SetLatestReply points the thread at its newest reply; nil clears the
	// pointer (no replies remain).
	SetLatestReply(ctx context.Context, threadID int64, replyID *int64) error

	// Delete removes the thread; replies and follow records cascade.
	Delete(ctx context.Context, id int64) error
}
