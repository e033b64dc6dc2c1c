package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/enums"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/security"
)

type memoryUserStore struct {
	byID map[int64]model.User
}

func newMemoryUserStore(users ...model.User) *memoryUserStore {
	s := &memoryUserStore{byID: make(map[int64]model.User)}
	for _, u := range users {
		s.byID[u.ID] = u
	}
	return s
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (s *memoryUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *memoryUserStore) RecordLogin(_ context.Context, id int64, at time.Time) error {
	u, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.LastLoginAt = &at
	s.byID[id] = u
	return nil
}

func (s *memoryUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.byID[id] = u
	return nil
}

type memorySessionStore struct {
	users    *memoryUserStore
	byToken  map[string]model.Session
	now      func() time.Time
}

func newMemorySessionStore(users *memoryUserStore, now func() time.Time) *memorySessionStore {
	return &memorySessionStore{
		users:   users,
		byToken: make(map[string]model.Session),
		now:     now,
	}
}

func (s *memorySessionStore) Create(_ context.Context, session model.Session) error {
	if _, exists := s.byToken[session.Token]; exists {
		return fmt.Errorf("duplicate session token")
	}
	s.byToken[session.Token] = session
	return nil
}

func (s *memorySessionStore) Authenticate(_ context.Context, token string, ttl time.Duration) (Identity, error) {
	session, ok := s.byToken[token]
	if !ok || !s.now().Before(session.ExpiresAt) {
		return Identity{}, ErrSessionNotFound
	}
	user, ok := s.users.byID[session.UserID]
	if !ok || !user.IsActive {
		return Identity{}, ErrSessionNotFound
	}
	session.ExpiresAt = s.now().Add(ttl)
	s.byToken[token] = session
	return Identity{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	delete(s.byToken, token)
	return nil
}

func (s *memorySessionStore) DeleteOthersForUser(_ context.Context, userID int64, keepToken string) error {
	for token, session := range s.byToken {
		if session.UserID == userID && token != keepToken {
			delete(s.byToken, token)
		}
	}
	return nil
}

func (s *memorySessionStore) DeleteAllForUser(_ context.Context, userID int64) error {
	for token, session := range s.byToken {
		if session.UserID == userID {
			delete(s.byToken, token)
		}
	}
	return nil
}

func (s *memorySessionStore) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for token, session := range s.byToken {
		if !s.now().Before(session.ExpiresAt) {
			delete(s.byToken, token)
			n++
		}
	}
	return n, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string) (int64, bool, error) {
	return 30, false, nil
}

func newAuthServiceForTest(t *testing.T) (*Service, *memoryUserStore, *memorySessionStore, *time.Time) {
	t.Helper()

	hash, err := security.HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users := newMemoryUserStore(
		model.User{ID: 1, Email: "asha@dept.edu", PasswordHash: hash, FullName: "Asha Verma", Role: enums.RoleAdmin, IsActive: true},
		model.User{ID: 2, Email: "gone@dept.edu", PasswordHash: hash, FullName: "Former Staff", Role: enums.RoleEditor, IsActive: false},
	)

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	sessions := newMemorySessionStore(users, clock)
	svc := NewService(users, sessions, 7*24*time.Hour, 4)
	svc.now = clock

	return svc, users, sessions, &now
}

func TestLoginIssuesSessionWithTTL(t *testing.T) {
	svc, _, sessions, now := newAuthServiceForTest(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "Asha@dept.edu", "correct horse", "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || len(res.Token) != 64 {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if got, want := res.ExpiresAt, now.Add(7*24*time.Hour); !got.Equal(want) {
		t.Fatalf("unexpected expiry: got %v want %v", got, want)
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("login result must not carry the password hash")
	}
	if res.User.LastLoginAt == nil || !res.User.LastLoginAt.Equal(*now) {
		t.Fatalf("last login not recorded: %v", res.User.LastLoginAt)
	}
	if _, ok := sessions.byToken[res.Token]; !ok {
		t.Fatalf("session row was not persisted")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	cases := []struct {
		email    string
		password string
	}{
		{"nobody@dept.edu", "correct horse"}, // unknown email
		{"gone@dept.edu", "correct horse"},   // inactive user
		{"asha@dept.edu", "wrong password"},  // bad password
	}
	for _, tc := range cases {
		if _, err := svc.Login(ctx, tc.email, tc.password, ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login(%q) should fail with ErrInvalidCredentials, got %v", tc.email, err)
		}
	}
}

func TestAuthenticateSlidesExpiry(t *testing.T) {
	svc, _, sessions, now := newAuthServiceForTest(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	*now = now.Add(3 * 24 * time.Hour)
	identity, err := svc.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.Role != enums.RoleAdmin || identity.Email != "asha@dept.edu" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	slid := sessions.byToken[res.Token].ExpiresAt
	if want := now.Add(7 * 24 * time.Hour); !slid.Equal(want) {
		t.Fatalf("expiry not slid: got %v want %v", slid, want)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	svc, _, _, now := newAuthServiceForTest(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	*now = now.Add(7*24*time.Hour + time.Second)
	if _, err := svc.Authenticate(ctx, res.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired session should be unauthorized, got %v", err)
	}
}

func TestInactiveUserDominatesUnexpiredSession(t *testing.T) {
	svc, users, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	u := users.byID[1]
	u.IsActive = false
	users.byID[1] = u

	if _, err := svc.Authenticate(ctx, res.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("inactive user should be unauthorized, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("second logout must not fail: %v", err)
	}
	if _, err := svc.Authenticate(ctx, res.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("token should be dead after logout, got %v", err)
	}
}

func TestConcurrentLoginsAreAdditive(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("sessions must use distinct tokens")
	}
	if _, err := svc.Authenticate(ctx, first.Token); err != nil {
		t.Fatalf("first session: %v", err)
	}
	if _, err := svc.Authenticate(ctx, second.Token); err != nil {
		t.Fatalf("second session: %v", err)
	}
}

func TestChangePasswordRevokesOtherSessions(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	current, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	other, err := svc.Login(ctx, "asha@dept.edu", "correct horse", "")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	identity, err := svc.Authenticate(ctx, current.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if err := svc.ChangePassword(ctx, identity, current.Token, "wrong", "new-password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password should fail, got %v", err)
	}
	if err := svc.ChangePassword(ctx, identity, current.Token, "correct horse", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short new password should fail, got %v", err)
	}
	if err := svc.ChangePassword(ctx, identity, current.Token, "correct horse", "new-password-1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Authenticate(ctx, other.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("other session should be revoked, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, current.Token); err != nil {
		t.Fatalf("current session must survive: %v", err)
	}

	if _, err := svc.Login(ctx, "asha@dept.edu", "correct horse", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, err := svc.Login(ctx, "asha@dept.edu", "new-password-1", ""); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestLoginThrottled(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	svc.AttachLoginLimiter(denyAllLimiter{})

	_, err := svc.Login(context.Background(), "asha@dept.edu", "correct horse", "10.0.0.9")
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	var limited *TooManyAttemptsError
	if !errors.As(err, &limited) || limited.RetryAfterSec != 30 {
		t.Fatalf("retry hint not carried: %v", err)
	}
}
