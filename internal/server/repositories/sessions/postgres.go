package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/dbx"
	"github.com/oakbb/oakboard/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	query := `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, token, userID, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.Session, *models.User, error) {
	query := `
		SELECT s.id, s.token, s.user_id, s.expires_at, s.unread_count, s.unread_counted_at,
		       u.id, u.username, u.display_name, u.bio, u.email, u.color, u.role, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
	`
	s := &models.Session{}
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&s.ID, &s.Token, &s.UserID, &s.ExpiresAt, &s.UnreadCount, &s.UnreadCountedAt,
		&u.ID, &u.Username, &u.DisplayName, &u.Bio, &u.Email, &u.Color, &u.Role, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	return s, u, nil
}

func (r *PostgresRepository) Extend(ctx context.Context, token string, validity time.Duration) error {
	query := `UPDATE sessions SET expires_at = $1 WHERE token = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now().Add(validity), token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= now()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return removed, nil
}

func (r *PostgresRepository) UpdateUnread(ctx context.Context, sessionID int64, count int, at time.Time) error {
	query := `UPDATE sessions SET unread_count = $1, unread_counted_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, count, at, sessionID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
