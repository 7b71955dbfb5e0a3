// Package services contains the server-side business logic: session
// issuance and expiry, account lifecycle, board/thread/reply operations
// behind the permission gates, and unread-thread tracking.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/cryptox"
	"github.com/oakbb/oakboard/internal/logging"
	"github.com/oakbb/oakboard/internal/server/config"
	"github.com/oakbb/oakboard/internal/server/models"
	"github.com/oakbb/oakboard/internal/server/repositories/repomanager"
	sessionsrepo "github.com/oakbb/oakboard/internal/server/repositories/sessions"
)

// SessionService owns the persisted session table: opaque random tokens
// with a sliding expiry window, renewed on every authenticated use and
// swept periodically.
type SessionService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
	ttl    time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		db:     db,
		repos:  m,
		logger: logger.With("module", "sessions"),
		ttl:    cfg.SessionTTL,
	}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create issues a new session token for userID. Token entropy makes a
// collision effectively impossible, but a clashing insert is retried once
// with a fresh token anyway.
func (s *SessionService) Create(ctx context.Context, userID int64) (string, error) {
	return s.createWith(ctx, s.repos.Sessions(s.db), userID)
}

// createWith lets account flows issue the session inside their own
// transaction.
func (s *SessionService) createWith(ctx context.Context, repo sessionsrepo.Repository, userID int64) (string, error) {
	token, err := cryptox.MakeSessionToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	if err := repo.Create(ctx, userID, token, s.ttl); err == nil {
		return token, nil
	}
	// Insert failed; regenerate in case the token collided.
	token, err = cryptox.MakeSessionToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	if err := repo.Create(ctx, userID, token, s.ttl); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return token, nil
}

// Resolve maps a token to its user. A missing, malformed, or expired token
// is the anonymous case: (nil, nil, nil), never an error. On a hit the
// expiry slides forward by the TTL.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, *models.Session, error) {
	if token == "" {
		return nil, nil, nil
	}

	repo := s.repos.Sessions(s.db)
	session, user, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("resolving session: %w", err)
	}

	if !session.ExpiresAt.After(time.Now()) {
		// Lazy garbage collection; the sweeper also handles these.
		if err := repo.Delete(ctx, token); err != nil {
			s.logger.Warn(ctx, "deleting expired session", "error", err)
		}
		return nil, nil, nil
	}

	if err := repo.Extend(ctx, token, s.ttl); err != nil {
		return nil, nil, fmt.Errorf("extending session: %w", err)
	}
	return user, session, nil
}

// Revoke deletes one session. Unknown tokens are a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.repos.Sessions(s.db).Delete(ctx, token)
}

// RevokeAll deletes every session for userID.
func (s *SessionService) RevokeAll(ctx context.Context, userID int64) error {
	return s.repos.Sessions(s.db).DeleteByUser(ctx, userID)
}

// SweepExpired removes every expired session and returns how many went.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.repos.Sessions(s.db).DeleteExpired(ctx)
}

// RunSweeper deletes expired sessions on a fixed interval until ctx is
// cancelled. A failed sweep logs and waits for the next tick.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.SweepExpired(ctx)
			if err != nil {
				s.logger.Error(ctx, "session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Info(ctx, "session sweep finished", "removed", removed)
			}
		}
	}
}
