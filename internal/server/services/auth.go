// Package services contains server-side business logic. AuthService handles
// registration, login for both account kinds and admin provisioning.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/dbx"
	"github.com/logicspark/logicspark/internal/logging"
	"github.com/logicspark/logicspark/internal/server/auth"
	"github.com/logicspark/logicspark/internal/server/config"
	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/logicspark/logicspark/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is satisfied by auth.BcryptHasher.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}

// UserSession is the result of a successful user register or login.
type UserSession struct {
	Token  string
	Claims *auth.Claims
	User   *models.User
}

// AdminSession is the result of a successful admin login.
type AdminSession struct {
	Token  string
	Claims *auth.Claims
	Admin  *models.Admin
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      *auth.TokenIssuer
	userTTL     time.Duration
	adminTTL    time.Duration
	logger      logging.Logger

	// dummyHash is verified against when the identity does not exist, so an
	// unknown account costs the same bcrypt work as a wrong password.
	dummyHash string
}

// NewAuthService constructs an AuthService. It hashes a random password once
// to obtain the dummy digest used for unknown identities.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	tokens *auth.TokenIssuer, cfg *config.Config, logger logging.Logger) (*AuthService, error) {

	seed, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummy, err := hasher.Hash(context.Background(), seed)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		userTTL:     cfg.UserTokenTTL,
		adminTTL:    cfg.AdminTokenTTL,
		logger:      logger.With("module", "auth"),
		dummyHash:   dummy,
	}, nil
}

// Register creates a user account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*UserSession, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, common.NewValidationError("All fields are required")
	}
	if !validEmail(email) {
		return nil, common.NewValidationError("Invalid email format")
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateIdentity
	case !errors.Is(err, common.ErrorNotFound):
		return nil, failure("lookup user", err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.NewValidationError("Password must be at most 72 bytes")
		}
		return nil, failure("hash password", err)
	}

	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, failure("create user", err)
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Email, common.RoleUser, s.userTTL)
	if err != nil {
		return nil, failure("issue token", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return &UserSession{Token: token, Claims: claims, User: user}, nil
}

// Login verifies user credentials. An unknown email and a wrong password both
// yield common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*UserSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Email and password are required")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.rejectUnknown(ctx, password)
		}
		return nil, failure("lookup user", err)
	}

	if err := s.checkPassword(ctx, password, user.PasswordHash); err != nil {
		return nil, err
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Email, common.RoleUser, s.userTTL)
	if err != nil {
		return nil, failure("issue token", err)
	}
	return &UserSession{Token: token, Claims: claims, User: user}, nil
}

// AdminLogin verifies admin credentials and returns an admin-role session.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*AdminSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.NewValidationError("Username and password are required")
	}

	admin, err := s.repomanager.Admins(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.rejectUnknown(ctx, password)
		}
		return nil, failure("lookup admin", err)
	}

	if err := s.checkPassword(ctx, password, admin.PasswordHash); err != nil {
		return nil, err
	}

	token, claims, err := s.tokens.Issue(admin.ID, admin.Username, common.RoleAdmin, s.adminTTL)
	if err != nil {
		return nil, failure("issue token", err)
	}

	s.logger.Info(ctx, "admin logged in", "admin_id", admin.ID)
	return &AdminSession{Token: token, Claims: claims, Admin: admin}, nil
}

// ProvisionAdmin sets the password of the named admin, creating the account
// if it does not exist. It reports whether a new account was created.
func (s *AuthService) ProvisionAdmin(ctx context.Context, username, email, password string) (*models.Admin, bool, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || password == "" {
		return nil, false, common.NewValidationError("Username and password are required")
	}
	if email != "" && !validEmail(email) {
		return nil, false, common.NewValidationError("Invalid email format")
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, false, common.NewValidationError("Password must be at most 72 bytes")
		}
		return nil, false, failure("hash password", err)
	}

	var (
		admin   *models.Admin
		created bool
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)

		existing, err := repo.GetByUsernameForUpdate(ctx, username)
		if errors.Is(err, common.ErrorNotFound) {
			admin, err = repo.Create(ctx, &models.Admin{Username: username, Email: email, PasswordHash: hash})
			created = err == nil
			return err
		}
		if err != nil {
			return err
		}

		if email == "" {
			email = existing.Email
		}
		if err := repo.UpdatePassword(ctx, existing.ID, email, hash); err != nil {
			return err
		}
		existing.Email, existing.PasswordHash = email, hash
		admin = existing
		return nil
	})
	if err != nil {
		return nil, false, failure("provision admin", err)
	}

	s.logger.Info(ctx, "admin provisioned", "username", username, "created", created)
	return admin, created, nil
}

func (s *AuthService) checkPassword(ctx context.Context, password, hash string) error {
	ok, err := s.hasher.Verify(ctx, password, hash)
	if err != nil {
		return failure("verify password", err)
	}
	if !ok {
		return common.ErrInvalidCredentials
	}
	return nil
}

// rejectUnknown burns one bcrypt comparison before refusing the login.
func (s *AuthService) rejectUnknown(ctx context.Context, password string) error {
	if _, err := s.hasher.Verify(ctx, password, s.dummyHash); err != nil {
		return failure("verify password", err)
	}
	return common.ErrInvalidCredentials
}
