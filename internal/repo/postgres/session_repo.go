package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	authsvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/auth"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, session model.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_sessions (token, user_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		session.Token, session.UserID, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Authenticate validates the token and slides its expiry in one
// statement, so a concurrent request cannot observe a half-validated
// session. An expired token, an unknown token and an inactive user all
// come back as ErrSessionNotFound.
func (r *SessionRepo) Authenticate(ctx context.Context, token string, ttl time.Duration) (authsvc.Identity, error) {
	var identity authsvc.Identity
	err := r.pool.QueryRow(ctx,
		`UPDATE user_sessions s
		 SET expires_at = NOW() + ($2 * INTERVAL '1 second')
		 FROM users u
		 WHERE s.token = $1
		   AND s.expires_at > NOW()
		   AND s.user_id = u.id
		   AND u.is_active
		 RETURNING u.id, u.email, u.full_name, u.role`,
		token, int64(ttl.Seconds()),
	).Scan(&identity.UserID, &identity.Email, &identity.FullName, &identity.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authsvc.Identity{}, authsvc.ErrSessionNotFound
		}
		return authsvc.Identity{}, fmt.Errorf("authenticate session: %w", err)
	}
	return identity, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM user_sessions WHERE token = $1`, token,
	); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteOthersForUser(ctx context.Context, userID int64, keepToken string) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM user_sessions WHERE user_id = $1 AND token <> $2`,
		userID, keepToken,
	); err != nil {
		return fmt.Errorf("delete other sessions: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM user_sessions WHERE user_id = $1`, userID,
	); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_sessions WHERE expires_at <= NOW()`,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
