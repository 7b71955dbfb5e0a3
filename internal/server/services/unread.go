package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/logging"
	"github.com/oakbb/oakboard/internal/server/access"
	"github.com/oakbb/oakboard/internal/server/models"
	"github.com/oakbb/oakboard/internal/server/repositories/repomanager"
)

// UnreadService tracks followed threads and their read watermarks, and
// serves the unread counter cached on the session row. The counter is a
// display value: it may lag by up to the staleness window and races
// resolve last-writer-wins.
type UnreadService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
	window time.Duration
}

func NewUnreadService(db *sql.DB, m repomanager.RepositoryManager, window time.Duration, logger logging.Logger) *UnreadService {
	return &UnreadService{
		db:     db,
		repos:  m,
		logger: logger.With("module", "unread"),
		window: window,
	}
}

// Follow starts tracking a thread for the subject. The watermark starts at
// the thread's current latest reply: the subject is looking at the thread
// when they follow it, so nothing counts as unread yet.
func (s *UnreadService) Follow(ctx context.Context, subject *models.User, threadID int64) error {
	if subject == nil {
		return common.ErrorUnauthorized
	}
	thread, err := s.repos.Threads(s.db).GetByID(ctx, threadID)
	if err != nil {
		return err
	}
	board, err := s.repos.Boards(s.db).GetByID(ctx, thread.BoardID)
	if err != nil {
		return err
	}
	if !access.CanView(subject, board.Role) {
		return common.ErrorNotFound
	}
	return s.repos.Follows(s.db).Upsert(ctx, subject.ID, threadID, thread.LatestReplyID)
}

// Unfollow drops the follow record outright. Re-following later starts a
// fresh watermark.
func (s *UnreadService) Unfollow(ctx context.Context, subject *models.User, threadID int64) error {
	if subject == nil {
		return common.ErrorUnauthorized
	}
	return s.repos.Follows(s.db).Delete(ctx, subject.ID, threadID)
}

// MarkRead advances the watermark to the thread's current latest reply.
// Viewing a thread the user does not follow is a no-op.
func (s *UnreadService) MarkRead(ctx context.Context, subject *models.User, threadID int64) error {
	if subject == nil {
		return nil
	}
	if _, err := s.repos.Follows(s.db).Get(ctx, subject.ID, threadID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	thread, err := s.repos.Threads(s.db).GetByID(ctx, threadID)
	if err != nil {
		return err
	}
	return s.repos.Follows(s.db).Upsert(ctx, subject.ID, threadID, thread.LatestReplyID)
}

// UnreadCount returns the number of followed threads with unseen replies.
// The real count is recomputed only when the session's cached value is at
// least the staleness window old; otherwise the cache is served as-is.
func (s *UnreadService) UnreadCount(ctx context.Context, session *models.Session) (int, error) {
	if session == nil {
		return 0, nil
	}

	now := time.Now()
	if now.Sub(session.UnreadCountedAt) < s.window {
		return session.UnreadCount, nil
	}

	count, err := s.repos.Follows(s.db).CountUnread(ctx, session.UserID)
	if err != nil {
		return 0, err
	}
	if err := s.repos.Sessions(s.db).UpdateUnread(ctx, session.ID, count, now); err != nil {
		// The count itself is good; failing to refresh the cache only
		// means the next request recomputes again.
		s.logger.Warn(ctx, "storing unread counter", "error", err)
	}
	session.UnreadCount = count
	session.UnreadCountedAt = now
	return count, nil
}
