package replies

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

func (r *PostgresRepository) Create(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	query := `
		INSERT INTO replies (thread_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, reply.ThreadID, reply.UserID, reply.Content).
		Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reply, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Reply, error) {
	query := `SELECT id, thread_id, user_id, content, created_at FROM replies WHERE id = $1`
	reply := &models.Reply{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&reply.ID, &reply.ThreadID, &reply.UserID, &reply.Content, &reply.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reply, nil
}

func (r *PostgresRepository) ListByThread(ctx context.Context, threadID int64) ([]*models.Reply, error) {
	query := `
		SELECT id, thread_id, user_id, content, created_at
		FROM replies
		WHERE thread_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Reply
	for rows.Next() {
		reply := &models.Reply{}
		if err := rows.Scan(&reply.ID, &reply.ThreadID, &reply.UserID, &reply.Content, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) LatestIDForThread(ctx context.Context, threadID int64) (*int64, error) {
	query := `SELECT MAX(id) FROM replies WHERE thread_id = $1`
	var latest sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, threadID).Scan(&latest); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Int64, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM replies WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
