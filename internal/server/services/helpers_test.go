package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/dbx"
	"github.com/oakbb/oakboard/internal/logging"
	"github.com/oakbb/oakboard/internal/server/config"
	"github.com/oakbb/oakboard/internal/server/models"
	boardsrepo "github.com/oakbb/oakboard/internal/server/repositories/boards"
	followsrepo "github.com/oakbb/oakboard/internal/server/repositories/follows"
	repliesrepo "github.com/oakbb/oakboard/internal/server/repositories/replies"
	"github.com/oakbb/oakboard/internal/server/repositories/repomanager"
	sessionsrepo "github.com/oakbb/oakboard/internal/server/repositories/sessions"
	threadsrepo "github.com/oakbb/oakboard/internal/server/repositories/threads"
	usersrepo "github.com/oakbb/oakboard/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

// errNotFoundWrapped mimics how repositories surface missing rows.
func errNotFoundWrapped() error {
	return fmt.Errorf("db error: %w", common.ErrorNotFound)
}

// --- fakes ---

type fakeUsersRepo struct {
	getOut    *models.User
	getErr    error
	createOut *models.User
	createErr error
	owners    int64
	ownersErr error

	created     []*models.User
	updatedHash map[int64]string
	updatedRole map[int64]models.Role
	deletedIDs  []int64
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = int64(len(f.created))
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) CountOwners(ctx context.Context) (int64, error) {
	return f.owners, f.ownersErr
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id int64, displayName, bio, email string, color int) error {
	return nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if f.updatedHash == nil {
		f.updatedHash = map[int64]string{}
	}
	f.updatedHash[id] = hash
	return nil
}

func (f *fakeUsersRepo) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	if f.updatedRole == nil {
		f.updatedRole = map[int64]models.Role{}
	}
	f.updatedRole[id] = role
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeSessionsRepo struct {
	findSession *models.Session
	findUser    *models.User
	findErr     error
	createErr   error
	createFails int
	expiredN    int64
	expiredErr  error

	createdTokens  []string
	extendedTokens []string
	deletedTokens  []string
	deletedUsers   []int64
	unreadStored   map[int64]int
}

func (f *fakeSessionsRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	if f.createFails > 0 {
		f.createFails--
		return errors.New("duplicate key value violates unique constraint")
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.createdTokens = append(f.createdTokens, token)
	return nil
}

func (f *fakeSessionsRepo) FindByToken(ctx context.Context, token string) (*models.Session, *models.User, error) {
	if f.findErr != nil {
		return nil, nil, f.findErr
	}
	return f.findSession, f.findUser, nil
}

func (f *fakeSessionsRepo) Extend(ctx context.Context, token string, validity time.Duration) error {
	f.extendedTokens = append(f.extendedTokens, token)
	return nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, token string) error {
	f.deletedTokens = append(f.deletedTokens, token)
	return nil
}

func (f *fakeSessionsRepo) DeleteByUser(ctx context.Context, userID int64) error {
	f.deletedUsers = append(f.deletedUsers, userID)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return f.expiredN, f.expiredErr
}

func (f *fakeSessionsRepo) UpdateUnread(ctx context.Context, sessionID int64, count int, at time.Time) error {
	if f.unreadStored == nil {
		f.unreadStored = map[int64]int{}
	}
	f.unreadStored[sessionID] = count
	return nil
}

type fakeBoardsRepo struct {
	getOut *models.Board
	getErr error
	list   []*models.Board
}

func (f *fakeBoardsRepo) List(ctx context.Context) ([]*models.Board, error) { return f.list, nil }
func (f *fakeBoardsRepo) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	return f.getOut, f.getErr
}
func (f *fakeBoardsRepo) Create(ctx context.Context, b *models.Board) (*models.Board, error) {
	b.ID = 1
	return b, nil
}
func (f *fakeBoardsRepo) Update(ctx context.Context, id int64, name, description string, role models.Role) error {
	return nil
}
func (f *fakeBoardsRepo) UpdateDisplayOrder(ctx context.Context, id int64, displayOrder int) error {
	return nil
}
func (f *fakeBoardsRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeThreadsRepo struct {
	getOut *models.Thread
	getErr error

	createdThreads []*models.Thread
	latestSet      map[int64]*int64
	deletedIDs     []int64
}

func (f *fakeThreadsRepo) Create(ctx context.Context, th *models.Thread) (*models.Thread, error) {
	f.createdThreads = append(f.createdThreads, th)
	th.ID = 100
	return th, nil
}
func (f *fakeThreadsRepo) GetByID(ctx context.Context, id int64) (*models.Thread, error) {
	return f.getOut, f.getErr
}
func (f *fakeThreadsRepo) ListByBoard(ctx context.Context, boardID int64) ([]*models.Thread, error) {
	return nil, nil
}
func (f *fakeThreadsRepo) SetLatestReply(ctx context.Context, threadID int64, replyID *int64) error {
	if f.latestSet == nil {
		f.latestSet = map[int64]*int64{}
	}
	f.latestSet[threadID] = replyID
	return nil
}
func (f *fakeThreadsRepo) Delete(ctx context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeRepliesRepo struct {
	getOut    *models.Reply
	getErr    error
	latestOut *int64

	nextID     int64
	createdIDs []int64
	deletedIDs []int64
}

func (f *fakeRepliesRepo) Create(ctx context.Context, r *models.Reply) (*models.Reply, error) {
	f.nextID++
	r.ID = f.nextID
	f.createdIDs = append(f.createdIDs, r.ID)
	return r, nil
}
func (f *fakeRepliesRepo) GetByID(ctx context.Context, id int64) (*models.Reply, error) {
	return f.getOut, f.getErr
}
func (f *fakeRepliesRepo) ListByThread(ctx context.Context, threadID int64) ([]*models.Reply, error) {
	return nil, nil
}
func (f *fakeRepliesRepo) LatestIDForThread(ctx context.Context, threadID int64) (*int64, error) {
	return f.latestOut, nil
}
func (f *fakeRepliesRepo) Delete(ctx context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeFollowsRepo struct {
	getOut   *models.FollowedThread
	getErr   error
	countOut int
	countErr error

	upserts []*models.FollowedThread
	deleted [][2]int64
}

func (f *fakeFollowsRepo) Upsert(ctx context.Context, userID, threadID int64, replyID *int64) error {
	f.upserts = append(f.upserts, &models.FollowedThread{UserID: userID, ThreadID: threadID, ReplyID: replyID})
	return nil
}
func (f *fakeFollowsRepo) Get(ctx context.Context, userID, threadID int64) (*models.FollowedThread, error) {
	return f.getOut, f.getErr
}
func (f *fakeFollowsRepo) Delete(ctx context.Context, userID, threadID int64) error {
	f.deleted = append(f.deleted, [2]int64{userID, threadID})
	return nil
}
func (f *fakeFollowsRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	return f.countOut, f.countErr
}

type fakeRepoManager struct {
	users    *fakeUsersRepo
	sessions *fakeSessionsRepo
	boards   *fakeBoardsRepo
	threads  *fakeThreadsRepo
	replies  *fakeRepliesRepo
	follows  *fakeFollowsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    &fakeUsersRepo{},
		sessions: &fakeSessionsRepo{},
		boards:   &fakeBoardsRepo{},
		threads:  &fakeThreadsRepo{},
		replies:  &fakeRepliesRepo{},
		follows:  &fakeFollowsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository { return m.sessions }
func (m *fakeRepoManager) Boards(db dbx.DBTX) boardsrepo.Repository     { return m.boards }
func (m *fakeRepoManager) Threads(db dbx.DBTX) threadsrepo.Repository   { return m.threads }
func (m *fakeRepoManager) Replies(db dbx.DBTX) repliesrepo.Repository   { return m.replies }
func (m *fakeRepoManager) Follows(db dbx.DBTX) followsrepo.Repository   { return m.follows }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
