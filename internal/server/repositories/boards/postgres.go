package boards

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

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Board, error) {
	query := `
		SELECT id, display_order, name, description, role
		FROM boards
		ORDER BY display_order ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		b := &models.Board{}
		if err := rows.Scan(&b.ID, &b.DisplayOrder, &b.Name, &b.Description, &b.Role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return boards, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	query := `SELECT id, display_order, name, description, role FROM boards WHERE id = $1`
	b := &models.Board{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.DisplayOrder, &b.Name, &b.Description, &b.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, board *models.Board) (*models.Board, error) {
	query := `
		INSERT INTO boards (display_order, name, description, role)
		VALUES ((SELECT COALESCE(MAX(display_order), 0) + 1 FROM boards), $1, $2, $3)
		RETURNING id, display_order
	`
	err := r.db.QueryRowContext(ctx, query, board.Name, board.Description, board.Role).
		Scan(&board.ID, &board.DisplayOrder)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return board, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, name, description string, role models.Role) error {
	query := `UPDATE boards SET name = $1, description = $2, role = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, name, description, role, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateDisplayOrder(ctx context.Context, id int64, displayOrder int) error {
	query := `UPDATE boards SET display_order = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, displayOrder, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM boards WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
