package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/security"
)

const (
	MinSessionTTL = time.Hour
	MaxSessionTTL = 30 * 24 * time.Hour

	minPasswordLen = 8
)

// UserStore lookups must return ErrUserNotFound when no row matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// SessionStore persists sessions. Authenticate must validate the token
// (present, unexpired, active user) and slide the expiry forward by ttl
// in the same operation, returning ErrSessionNotFound on any miss.
type SessionStore interface {
	Create(ctx context.Context, session model.Session) error
	Authenticate(ctx context.Context, token string, ttl time.Duration) (Identity, error)
	Delete(ctx context.Context, token string) error
	DeleteOthersForUser(ctx context.Context, userID int64, keepToken string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// LoginLimiter throttles credential attempts. A nil limiter allows
// everything; auth must not depend on the cache tier being up.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (retryAfterSec int64, ok bool, err error)
}

type Service struct {
	users      UserStore
	sessions   SessionStore
	limiter    LoginLimiter
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewService(users UserStore, sessions SessionStore, sessionTTL time.Duration, bcryptCost int) *Service {
	if sessionTTL < MinSessionTTL {
		sessionTTL = MinSessionTTL
	}
	if sessionTTL > MaxSessionTTL {
		sessionTTL = MaxSessionTTL
	}

	return &Service{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *Service) AttachLoginLimiter(limiter LoginLimiter) {
	s.limiter = limiter
}

func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login verifies credentials and opens a new session. Unknown email,
// inactive account and wrong password all surface as
// ErrInvalidCredentials so responses cannot be used for enumeration.
func (s *Service) Login(ctx context.Context, email, password, ip string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}

	if s.limiter != nil {
		if retryAfter, ok, err := s.limiter.Allow(ctx, "login:"+email+":"+ip); err == nil && !ok {
			return LoginResult{}, &TooManyAttemptsError{RetryAfterSec: retryAfter}
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("find user by email: %w", err)
	}
	if !user.IsActive {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := security.CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := NewSessionToken()
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.sessionTTL)
	session := model.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}
	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return LoginResult{}, fmt.Errorf("record login: %w", err)
	}

	loginAt := now
	user.LastLoginAt = &loginAt
	user.PasswordHash = ""

	return LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate resolves a session token to an identity, sliding the
// expiry as a side effect. Every failure mode collapses into
// ErrUnauthorized; callers must not learn why a token was rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrUnauthorized
	}

	identity, err := s.sessions.Authenticate(ctx, token, s.sessionTTL)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, fmt.Errorf("authenticate session: %w", err)
	}

	return identity, nil
}

// Logout is idempotent: deleting an unknown or already-deleted token is
// not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ChangePassword re-verifies the current password, persists the new
// hash, and revokes every other session of the user. The session that
// performed the change stays valid.
func (s *Service) ChangePassword(ctx context.Context, identity Identity, token, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := security.CheckPassword(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.sessions.DeleteOthersForUser(ctx, user.ID, token); err != nil {
		return fmt.Errorf("revoke other sessions: %w", err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
