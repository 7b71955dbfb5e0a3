// Package repomanager wires the repository constructors behind a single
// interface so services can obtain repositories bound to either the pool
// or a transaction in progress.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/oakbb/oakboard/internal/dbx"
	"github.com/oakbb/oakboard/internal/server/repositories/boards"
	"github.com/oakbb/oakboard/internal/server/repositories/follows"
	"github.com/oakbb/oakboard/internal/server/repositories/replies"
	"github.com/oakbb/oakboard/internal/server/repositories/sessions"
	"github.com/oakbb/oakboard/internal/server/repositories/threads"
	"github.com/oakbb/oakboard/internal/server/repositories/users"
)

// RepositoryManager vends repositories over a DBTX and exposes the schema
// migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Boards(db dbx.DBTX) boards.Repository
	Threads(db dbx.DBTX) threads.Repository
	Replies(db dbx.DBTX) replies.Repository
	Follows(db dbx.DBTX) follows.Repository
}
