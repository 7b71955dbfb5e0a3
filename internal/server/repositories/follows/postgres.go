package follows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/dbx"
	"github.com/oakbb/oakboard/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, threadID int64, replyID *int64) error {
	query := `
		INSERT INTO followed_threads (user_id, thread_id, reply_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, thread_id) DO UPDATE SET reply_id = EXCLUDED.reply_id
	`
	if _, err := r.db.ExecContext(ctx, query, userID, threadID, replyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, threadID int64) (*models.FollowedThread, error) {
	query := `
		SELECT user_id, thread_id, reply_id
		FROM followed_threads
		WHERE user_id = $1 AND thread_id = $2
	`
	f := &models.FollowedThread{}
	err := r.db.QueryRowContext(ctx, query, userID, threadID).Scan(&f.UserID, &f.ThreadID, &f.ReplyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, threadID int64) error {
	query := `DELETE FROM followed_threads WHERE user_id = $1 AND thread_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, threadID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// CountUnread compares watermarks against the denormalized latest-reply
// pointer. A null pointer means the thread has no replies, so it can never
// be unread; a null watermark means the follower has seen nothing, so any
// reply counts. Reply ids are monotonic, so > is "newer than".
func (r *PostgresRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM followed_threads f
		JOIN threads t ON t.id = f.thread_id
		WHERE f.user_id = $1
		  AND t.latest_reply_id IS NOT NULL
		  AND (f.reply_id IS NULL OR f.reply_id < t.latest_reply_id)
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
