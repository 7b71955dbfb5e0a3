package threads

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

func (r *PostgresRepository) Create(ctx context.Context, thread *models.Thread) (*models.Thread, error) {
	query := `
		INSERT INTO threads (board_id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, thread.BoardID, thread.UserID, thread.Title).
		Scan(&thread.ID, &thread.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return thread, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Thread, error) {
	query := `
		SELECT id, board_id, user_id, title, created_at, latest_reply_id
		FROM threads
		WHERE id = $1
	`
	t := &models.Thread{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.BoardID, &t.UserID, &t.Title, &t.CreatedAt, &t.LatestReplyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) ListByBoard(ctx context.Context, boardID int64) ([]*models.Thread, error) {
	query := `
		SELECT id, board_id, user_id, title, created_at, latest_reply_id
		FROM threads
		WHERE board_id = $1
		ORDER BY id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var threads []*models.Thread
	for rows.Next() {
		t := &models.Thread{}
		if err := rows.Scan(&t.ID, &t.BoardID, &t.UserID, &t.Title, &t.CreatedAt, &t.LatestReplyID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return threads, nil
}

func (r *PostgresRepository) SetLatestReply(ctx context.Context, threadID int64, replyID *int64) error {
	query := `UPDATE threads SET latest_reply_id = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, replyID, threadID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM threads WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
