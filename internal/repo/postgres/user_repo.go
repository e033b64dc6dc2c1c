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
	userssvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/users"
)

const userColumns = `id, email, password_hash, full_name, role, is_active, last_login_at, created_at, updated_at`

// UserRepo backs both the auth lookups and the admin user management,
// so each consumer gets its own sentinel errors back.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("select user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepo) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = NOW() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authsvc.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, authsvc.ErrUserNotFound) {
			return model.User{}, userssvc.ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, full_name, role, is_active)
		 VALUES (LOWER($1), $2, $3, $4, $5)
		 RETURNING `+userColumns,
		user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive,
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, userssvc.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepo) Update(ctx context.Context, user model.User) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET full_name = $2, role = $3, is_active = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.FullName, user.Role, user.IsActive,
	)
	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, userssvc.ErrNotFound
		}
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return userssvc.ErrNotFound
	}
	return nil
}

func (r *UserRepo) CountActiveAdmins(ctx context.Context, excludeID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'admin' AND is_active AND id <> $1`,
		excludeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active admins: %w", err)
	}
	return n, nil
}
