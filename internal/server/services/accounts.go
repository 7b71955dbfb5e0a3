package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/cryptox"
	"github.com/oakbb/oakboard/internal/dbx"
	"github.com/oakbb/oakboard/internal/logging"
	"github.com/oakbb/oakboard/internal/server/access"
	"github.com/oakbb/oakboard/internal/server/models"
	"github.com/oakbb/oakboard/internal/server/repositories/repomanager"
)

const (
	maxUsernameLength    = 24
	maxDisplayNameLength = 36
	maxBioLength         = 240
	maxEmailLength       = 48
	maxColorHue          = 359
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// AccountService implements the account lifecycle: registration with Owner
// bootstrapping, login, password changes and resets, profile updates, role
// changes, and account deletion.
type AccountService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions *SessionService
	logger   logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, logger logging.Logger) *AccountService {
	return &AccountService{
		db:       db,
		repos:    m,
		sessions: sessions,
		logger:   logger.With("module", "accounts"),
	}
}

// Register creates an account and logs it in, returning the new user and a
// session token. The first account while no Owner exists becomes the
// Owner; deleting the sole Owner later makes the next registration the new
// Owner. Duplicate usernames fail with common.ErrorConflict.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	if err := validateUsername(username); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}

	// Hash before opening the transaction: bcrypt is the only CPU-heavy
	// step and has no business holding a transaction open.
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	if _, err := s.repos.Users(s.db).GetByUsername(ctx, username); err == nil {
		return nil, "", fmt.Errorf("%w: a user with the given username already exists", common.ErrorConflict)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", fmt.Errorf("checking username: %w", err)
	}

	var user *models.User
	var token string

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersTx := s.repos.Users(tx)

		// The Owner check shares the insert's transaction so two racing
		// first registrations cannot both claim the role.
		owners, err := usersTx.CountOwners(ctx)
		if err != nil {
			return fmt.Errorf("counting owners: %w", err)
		}
		role := models.RoleUser
		if owners == 0 {
			role = models.RoleOwner
		}

		user = &models.User{
			Username:     username,
			DisplayName:  username,
			Email:        email,
			Color:        randomHue(),
			Role:         role,
			PasswordHash: hash,
		}
		if user, err = usersTx.Create(ctx, user); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		token, err = s.sessions.createWith(ctx, s.repos.Sessions(tx), user.ID)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info(ctx, "user registered", "username", username, "role", user.Role.String())
	return user, token, nil
}

// Login verifies credentials and issues a session. Unknown usernames and
// wrong passwords yield the identical common.ErrorUnauthorized so callers
// cannot enumerate accounts.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyPassword checks the user's current password without issuing a
// session.
func (s *AccountService) VerifyPassword(ctx context.Context, userID int64, password string) error {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return common.ErrorUnauthorized
	}
	return nil
}

// ChangePassword rehashes and stores the new password and revokes every
// session of the user, in one transaction, so no outstanding session
// survives the change.
func (s *AccountService) ChangePassword(ctx context.Context, userID int64, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Users(tx).UpdatePasswordHash(ctx, userID, hash); err != nil {
			return fmt.Errorf("updating password: %w", err)
		}
		if err := s.repos.Sessions(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("revoking sessions: %w", err)
		}
		return nil
	})
}

// ResetPassword sets a random password on the target account on behalf of
// a higher-role subject and returns the plaintext for one-time display.
func (s *AccountService) ResetPassword(ctx context.Context, subject *models.User, targetUsername string) (string, error) {
	target, err := s.repos.Users(s.db).GetByUsername(ctx, targetUsername)
	if err != nil {
		return "", err
	}
	if !access.CanManageUser(subject, target) {
		return "", common.ErrorForbidden
	}

	raw := make([]byte, 15)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	newPassword := base64.StdEncoding.EncodeToString(raw)

	if err := s.ChangePassword(ctx, target.ID, newPassword); err != nil {
		return "", err
	}
	s.logger.Info(ctx, "password reset", "target", targetUsername, "by", subject.Username)
	return newPassword, nil
}

// UpdateProfile changes the mutable profile fields of the user.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, displayName, bio, email string, color int) error {
	if len(displayName) < 1 || len(displayName) > maxDisplayNameLength {
		return fmt.Errorf("%w: display name must be between 1 and %d characters", common.ErrorValidation, maxDisplayNameLength)
	}
	if len(bio) > maxBioLength {
		return fmt.Errorf("%w: bio must be no more than %d characters", common.ErrorValidation, maxBioLength)
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if color < 0 || color > maxColorHue {
		return fmt.Errorf("%w: color must be between 0 and %d", common.ErrorValidation, maxColorHue)
	}
	return s.repos.Users(s.db).UpdateProfile(ctx, userID, displayName, bio, email, color)
}

// ChangeRole sets the target's role. The subject must be an Administrator
// or higher with a strictly greater role than the target, and may not
// grant a role above their own.
func (s *AccountService) ChangeRole(ctx context.Context, subject *models.User, targetUsername string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: role must be User, Moderator, Administrator, or Owner", common.ErrorValidation)
	}

	target, err := s.repos.Users(s.db).GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if !access.CanChangeRole(subject, target) {
		return common.ErrorForbidden
	}
	if role > subject.Role {
		return common.ErrorForbidden
	}

	if err := s.repos.Users(s.db).UpdateRole(ctx, target.ID, role); err != nil {
		return err
	}
	s.logger.Info(ctx, "role changed", "target", targetUsername, "role", role.String(), "by", subject.Username)
	return nil
}

// DeleteAccount removes the target account. Sessions, threads, replies,
// and follow records cascade away in storage. If the target was the sole
// Owner, the next registration becomes Owner; nobody is auto-promoted.
func (s *AccountService) DeleteAccount(ctx context.Context, subject *models.User, targetUsername string) error {
	target, err := s.repos.Users(s.db).GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if !access.CanManageUser(subject, target) {
		return common.ErrorForbidden
	}

	if err := s.repos.Users(s.db).Delete(ctx, target.ID); err != nil {
		return err
	}
	s.logger.Info(ctx, "account deleted", "target", targetUsername, "by", subject.Username)
	return nil
}

// GetByUsername returns a user's account for profile display.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repos.Users(s.db).GetByUsername(ctx, username)
}

func validateUsername(username string) error {
	if len(username) < 1 || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be between 1 and %d characters", common.ErrorValidation, maxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username must be lowercase and may have digits, underscores, dots, and dashes", common.ErrorValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: email must be no more than %d characters", common.ErrorValidation, maxEmailLength)
	}
	return nil
}

func randomHue() int {
	n, err := rand.Int(rand.Reader, big.NewInt(maxColorHue+1))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}
