package auth

import (
	"errors"
	"time"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/enums"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// TooManyAttemptsError carries the limiter's retry hint alongside the
// ErrTooManyAttempts sentinel, so handlers can set a real Retry-After.
type TooManyAttemptsError struct {
	RetryAfterSec int64
}

func (e *TooManyAttemptsError) Error() string { return ErrTooManyAttempts.Error() }

func (e *TooManyAttemptsError) Unwrap() error { return ErrTooManyAttempts }

// Identity is the resolved caller of an authenticated request. It never
// carries the password hash.
type Identity struct {
	UserID   int64
	Email    string
	FullName string
	Role     enums.Role
}

type LoginResult struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}
