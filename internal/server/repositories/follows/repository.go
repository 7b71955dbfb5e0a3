// Package follows declares the repository contract for followed-thread
// records and their read watermarks.
package follows

import (
	"context"

	"github.com/oakbb/oakboard/internal/server/models"
)

// Repository defines persistence operations for follow records.
type Repository interface {
	// Upsert creates the follow record or advances its watermark.
	Upsert(ctx context.Context, userID, threadID int64, replyID *int64) error

	// Get returns the follow record for (userID, threadID), or
	// common.ErrorNotFound.
	Get(ctx context.Context, userID, threadID int64) (*models.FollowedThread, error)

	// Delete removes the follow record. Re-following later starts a fresh
	// watermark.
	Delete(ctx context.Context, userID, threadID int64) error

	// CountUnread returns how many of the user's followed threads have a
	// reply newer than the stored watermark. Threads with no replies
	// never count.
	CountUnread(ctx context.Context, userID int64) (int, error)
}
