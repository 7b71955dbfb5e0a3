package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/dbx"
	"github.com/oakbb/oakboard/internal/logging"
	"github.com/oakbb/oakboard/internal/server/access"
	"github.com/oakbb/oakboard/internal/server/models"
	"github.com/oakbb/oakboard/internal/server/repositories/repomanager"
)

// ForumService handles boards, threads, and replies. Every operation runs
// through the access predicates; mutations that touch the denormalized
// latest-reply pointer or a watermark do so inside one transaction.
type ForumService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewForumService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ForumService {
	return &ForumService{db: db, repos: m, logger: logger.With("module", "forum")}
}

// ListBoards returns the boards the subject may see, in display order.
func (s *ForumService) ListBoards(ctx context.Context, subject *models.User) ([]*models.Board, error) {
	all, err := s.repos.Boards(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.Board, 0, len(all))
	for _, b := range all {
		if access.CanView(subject, b.Role) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

// CreateBoard adds a board at the end of the listing. Administrator+.
func (s *ForumService) CreateBoard(ctx context.Context, subject *models.User, name, description string, role models.Role) (*models.Board, error) {
	if !access.CanAdminister(subject, models.RoleAdministrator) {
		return nil, common.ErrorForbidden
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be User, Moderator, Administrator, or Owner", common.ErrorValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: board name must not be empty", common.ErrorValidation)
	}
	return s.repos.Boards(s.db).Create(ctx, &models.Board{Name: name, Description: description, Role: role})
}

// UpdateBoard edits a board's name, description, and required role.
func (s *ForumService) UpdateBoard(ctx context.Context, subject *models.User, boardID int64, name, description string, role models.Role) error {
	if !access.CanAdminister(subject, models.RoleAdministrator) {
		return common.ErrorForbidden
	}
	if !role.Valid() {
		return fmt.Errorf("%w: role must be User, Moderator, Administrator, or Owner", common.ErrorValidation)
	}
	if _, err := s.repos.Boards(s.db).GetByID(ctx, boardID); err != nil {
		return err
	}
	return s.repos.Boards(s.db).Update(ctx, boardID, name, description, role)
}

// ReorderBoards applies new display positions. Administrator+.
func (s *ForumService) ReorderBoards(ctx context.Context, subject *models.User, order map[int64]int) error {
	if !access.CanAdminister(subject, models.RoleAdministrator) {
		return common.ErrorForbidden
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Boards(tx)
		for id, pos := range order {
			if err := repo.UpdateDisplayOrder(ctx, id, pos); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteBoard removes a board and (via cascade) its threads. Administrator+.
func (s *ForumService) DeleteBoard(ctx context.Context, subject *models.User, boardID int64) error {
	if !access.CanAdminister(subject, models.RoleAdministrator) {
		return common.ErrorForbidden
	}
	if _, err := s.repos.Boards(s.db).GetByID(ctx, boardID); err != nil {
		return err
	}
	return s.repos.Boards(s.db).Delete(ctx, boardID)
}

// ListThreads returns a board's threads, gated by the board's role.
func (s *ForumService) ListThreads(ctx context.Context, subject *models.User, boardID int64) (*models.Board, []*models.Thread, error) {
	board, err := s.repos.Boards(s.db).GetByID(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}
	if !access.CanView(subject, board.Role) {
		// A hidden board is indistinguishable from a missing one.
		return nil, nil, common.ErrorNotFound
	}
	threads, err := s.repos.Threads(s.db).ListByBoard(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}
	return board, threads, nil
}

// CreateThread opens a thread with its first reply and a follow record for
// the author, all in one transaction.
func (s *ForumService) CreateThread(ctx context.Context, subject *models.User, boardID int64, title, content string) (*models.Thread, error) {
	if subject == nil {
		return nil, common.ErrorUnauthorized
	}
	board, err := s.repos.Boards(s.db).GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.CanView(subject, board.Role) {
		return nil, common.ErrorNotFound
	}
	if title == "" {
		return nil, fmt.Errorf("%w: thread title must not be empty", common.ErrorValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: thread content must not be empty", common.ErrorValidation)
	}

	var thread *models.Thread
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		thread = &models.Thread{BoardID: boardID, UserID: subject.ID, Title: title}
		if thread, err = s.repos.Threads(tx).Create(ctx, thread); err != nil {
			return err
		}

		reply := &models.Reply{ThreadID: thread.ID, UserID: subject.ID, Content: content}
		if reply, err = s.repos.Replies(tx).Create(ctx, reply); err != nil {
			return err
		}

		if err := s.repos.Threads(tx).SetLatestReply(ctx, thread.ID, &reply.ID); err != nil {
			return err
		}
		thread.LatestReplyID = &reply.ID

		// The author has seen everything they just wrote.
		return s.repos.Follows(tx).Upsert(ctx, subject.ID, thread.ID, &reply.ID)
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// ViewThread returns a thread with its replies, gated by the board role.
// Watermark advancement on view is the unread tracker's job.
func (s *ForumService) ViewThread(ctx context.Context, subject *models.User, threadID int64) (*models.Thread, []*models.Reply, error) {
	thread, err := s.repos.Threads(s.db).GetByID(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	board, err := s.repos.Boards(s.db).GetByID(ctx, thread.BoardID)
	if err != nil {
		return nil, nil, err
	}
	if !access.CanView(subject, board.Role) {
		return nil, nil, common.ErrorNotFound
	}
	replies, err := s.repos.Replies(s.db).ListByThread(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	return thread, replies, nil
}

// CreateReply posts into a thread, advancing the thread's latest-reply
// pointer and the author's watermark in the same transaction.
func (s *ForumService) CreateReply(ctx context.Context, subject *models.User, threadID int64, content string) (*models.Reply, error) {
	if subject == nil {
		return nil, common.ErrorUnauthorized
	}
	thread, err := s.repos.Threads(s.db).GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	board, err := s.repos.Boards(s.db).GetByID(ctx, thread.BoardID)
	if err != nil {
		return nil, err
	}
	if !access.CanView(subject, board.Role) {
		return nil, common.ErrorNotFound
	}
	if content == "" {
		return nil, fmt.Errorf("%w: reply content must not be empty", common.ErrorValidation)
	}

	var reply *models.Reply
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		reply = &models.Reply{ThreadID: threadID, UserID: subject.ID, Content: content}
		if reply, err = s.repos.Replies(tx).Create(ctx, reply); err != nil {
			return err
		}
		if err := s.repos.Threads(tx).SetLatestReply(ctx, threadID, &reply.ID); err != nil {
			return err
		}
		return s.repos.Follows(tx).Upsert(ctx, subject.ID, threadID, &reply.ID)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteReply removes a reply if the subject authored it or moderates.
// Deleting the thread's newest reply retargets the latest-reply pointer to
// the remaining newest reply, or null when none remain, so followers'
// unread state settles to "read".
func (s *ForumService) DeleteReply(ctx context.Context, subject *models.User, replyID int64) error {
	reply, err := s.repos.Replies(s.db).GetByID(ctx, replyID)
	if err != nil {
		return err
	}
	thread, err := s.repos.Threads(s.db).GetByID(ctx, reply.ThreadID)
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
	if !access.CanMutateOwned(subject, board.Role, reply.UserID) {
		return common.ErrorForbidden
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Replies(tx).Delete(ctx, replyID); err != nil {
			return err
		}
		if thread.LatestReplyID != nil && *thread.LatestReplyID == replyID {
			latest, err := s.repos.Replies(tx).LatestIDForThread(ctx, thread.ID)
			if err != nil {
				return err
			}
			if err := s.repos.Threads(tx).SetLatestReply(ctx, thread.ID, latest); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteThread removes a thread if the subject authored it or moderates.
// Replies and follow records cascade.
func (s *ForumService) DeleteThread(ctx context.Context, subject *models.User, threadID int64) error {
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
	if !access.CanMutateOwned(subject, board.Role, thread.UserID) {
		return common.ErrorForbidden
	}
	return s.repos.Threads(s.db).Delete(ctx, threadID)
}
