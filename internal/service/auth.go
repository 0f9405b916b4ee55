package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskrail/taskrail/internal/domain"
	"github.com/taskrail/taskrail/internal/store"
	"github.com/taskrail/taskrail/pkg/cryptox"
	"github.com/taskrail/taskrail/pkg/slogx"
	"github.com/taskrail/taskrail/pkg/tokenx"
)

// MinPasswordLength is the registration-time password policy.
const MinPasswordLength = 6

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must surface the two identically so account existence never
	// leaks.
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrPasswordTooShort   = errors.New("password_too_short")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// AuthService issues and rotates the access/refresh token pair. It is
// stateless: no session record is created anywhere, validity is proven purely
// by signature and expiry.
type AuthService struct {
	Store   store.Store
	Access  *tokenx.Codec
	Refresh *tokenx.Codec
}

// Register creates a new account. The email/password presence checks happen
// at the HTTP boundary; the length policy and duplicate check live here.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrPasswordTooShort
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	var created domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		created, err = tx.Users().CreateUser(ctx, email, hash)
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrEmailTaken
		}
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	return created, nil
}

// Login verifies credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed: unknown email")
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed: password mismatch", slog.Int64("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// Rotate exchanges a valid refresh token for a brand-new pair. The old
// refresh token stays cryptographically valid until its own expiry; there is
// no revocation registry, only time-bounded exposure.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.Refresh.Verify(refreshToken)
	if err != nil {
		slogx.FromContext(ctx).Info("refresh token rejected", "err", err)
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	return s.issuePair(claims.UserID)
}

// issuePair mints an access/refresh pair for a single identity claim. Each
// minted refresh token carries a fresh jti, so rotation always yields a
// distinct token string.
func (s *AuthService) issuePair(userID int64) (domain.TokenPair, error) {
	access, err := s.Access.Sign(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Refresh.Sign(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
