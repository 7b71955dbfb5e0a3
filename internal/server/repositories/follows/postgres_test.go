package follows

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/oakbb/oakboard/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert_WithWatermark(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	replyID := int64(42)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+followed_threads\b.*ON\s+CONFLICT\s+\(user_id,\s*thread_id\)\s+DO\s+UPDATE\b`).
		WithArgs(int64(1), int64(3), int64(42)). // pointer watermark flattens to its value
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), 1, 3, &replyID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsert_NilWatermark(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+followed_threads\b`).
		WithArgs(int64(1), int64(3), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), 1, 3, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "thread_id", "reply_id"}).
		AddRow(int64(1), int64(3), int64(42))

	mock.ExpectQuery(`(?s)^SELECT\s+user_id,\s*thread_id,\s*reply_id\s+FROM\s+followed_threads\b`).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(rows)

	f, err := repo.Get(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ReplyID == nil || *f.ReplyID != 42 {
		t.Fatalf("unexpected watermark: %+v", f)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+user_id,\s*thread_id,\s*reply_id\s+FROM\s+followed_threads\b`).
		WithArgs(int64(1), int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 1, 9)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestCountUnread(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+followed_threads\s+f\s+JOIN\s+threads\s+t\b.*latest_reply_id\s+IS\s+NOT\s+NULL\b`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountUnread(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestDelete_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+followed_threads\b`).
		WithArgs(int64(1), int64(3)).
		WillReturnError(errors.New("db err"))

	err := repo.Delete(context.Background(), 1, 3)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
