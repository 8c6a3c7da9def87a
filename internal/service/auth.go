// Package service contains application services for accounts, sessions and galleries.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/olmmcc/union/internal/crypto"
	"github.com/olmmcc/union/internal/errs"
	"github.com/olmmcc/union/internal/limiter"
	"github.com/olmmcc/union/internal/model"
	"github.com/olmmcc/union/internal/repository"
	"github.com/olmmcc/union/internal/storage"
	"github.com/olmmcc/union/internal/validate"
)

// AuthService defines account and session operations.
type AuthService interface {
	// SignUp validates fields, hashes the password and creates the account
	// with its storage namespace.
	SignUp(ctx context.Context, email, password, username string) error
	// LoginWithIP authenticates and issues a session token, superseding any
	// prior session for that user. Rate-limited by (email, ip).
	LoginWithIP(ctx context.Context, email, password, ip string) (token string, err error)
	// Authenticate resolves a session token to its user. Tokens failing the
	// session-token grammar are rejected without touching the store.
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	store    storage.Store
	lim      limiter.Limiter
	log      *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, store storage.Store, lim limiter.Limiter, log *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, sessions: sessions, store: store, lim: lim, log: log}
}

// SignUp creates a new user record and provisions its gallery namespace.
// Duplicate email/username detection is the store's job, not a pre-check.
func (s *AuthServiceImpl) SignUp(ctx context.Context, email, password, username string) error {
	email, okE := validate.Parse(validate.Email, email)
	password, okP := validate.Parse(validate.Password, password)
	username, okU := validate.Parse(validate.Username, username)
	if !okE || !okP || !okU {
		return errs.ErrInvalidInput
	}

	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return err
	}

	u := &model.User{ID: uid, Email: email, Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	if err := s.store.EnsureUser(ctx, username); err != nil {
		return fmt.Errorf("provision user storage: %w", err)
	}
	return nil
}

// LoginWithIP verifies credentials and issues a fresh 255-char session
// token. Every credential-shaped failure maps to ErrUnauthorized so the
// response cannot distinguish "unknown email" from "wrong password".
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (string, error) {
	email, okE := validate.Parse(validate.Email, email)
	password, okP := validate.Parse(validate.Password, password)
	if !okE || !okP {
		return "", errs.ErrUnauthorized
	}

	ipHash := limiter.HashIP(ip)
	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
				return "", errs.ErrRateLimited
			}
			return "", errs.ErrUnauthorized
		}
		return "", err
	}

	match, err := pkgcrypto.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		// Malformed stored hash is store corruption, not a bad password.
		return "", fmt.Errorf("user %s: %w", u.ID, err)
	}
	if !match {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return "", errs.ErrRateLimited
		}
		return "", errs.ErrUnauthorized
	}

	// a failed counter reset must not block the login
	if err := s.lim.Success(ctx, email, ipHash); err != nil {
		s.log.Warn("limiter reset failed", zap.String("user", u.ID.String()), zap.Error(err))
	}

	token, err := pkgcrypto.NewSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Issue(ctx, u.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate maps a presented token to its user.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if !validate.OK(validate.SessionToken, token) {
		return nil, errs.ErrUnauthorized
	}
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}
