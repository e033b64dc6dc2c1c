package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/enums"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/pkg/validate"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/security"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrLastAdmin  = errors.New("cannot remove the last active admin")
)

const minPasswordLen = 8

type Store interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	Delete(ctx context.Context, id int64) error
	CountActiveAdmins(ctx context.Context, excludeID int64) (int, error)
}

// SessionRevoker cuts every live session of a user; wired to the same
// table the auth service reads.
type SessionRevoker interface {
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type Service struct {
	store      Store
	sessions   SessionRevoker
	bcryptCost int
}

func NewService(store Store, sessions SessionRevoker, bcryptCost int) *Service {
	return &Service{
		store:      store,
		sessions:   sessions,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range list {
		list[i].PasswordHash = ""
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, email, password, fullName, role string) (model.User, error) {
	email = validate.NormalizeEmail(email)
	if !validate.Email(email) || !validate.NonEmpty(fullName) {
		return model.User{}, ErrValidation
	}
	if len(password) < minPasswordLen {
		return model.User{}, ErrValidation
	}
	parsedRole, ok := enums.ParseRole(role)
	if !ok {
		return model.User{}, ErrValidation
	}

	hash, err := security.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         parsedRole,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Update changes profile, role, and active state. Demoting or
// deactivating the last active admin is refused, and a deactivated user
// loses every live session.
func (s *Service) Update(ctx context.Context, id int64, fullName, role string, isActive bool) (model.User, error) {
	if id <= 0 || !validate.NonEmpty(fullName) {
		return model.User{}, ErrValidation
	}
	parsedRole, ok := enums.ParseRole(role)
	if !ok {
		return model.User{}, ErrValidation
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("load user: %w", err)
	}

	losesAdmin := parsedRole != enums.RoleAdmin || !isActive
	if current.Role == enums.RoleAdmin && current.IsActive && losesAdmin {
		if err := s.requireAnotherActiveAdmin(ctx, id); err != nil {
			return model.User{}, err
		}
	}

	current.FullName = fullName
	current.Role = parsedRole
	current.IsActive = isActive

	updated, err := s.store.Update(ctx, current)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("update user: %w", err)
	}

	if !isActive && s.sessions != nil {
		if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
			return model.User{}, fmt.Errorf("revoke sessions: %w", err)
		}
	}

	updated.PasswordHash = ""
	return updated, nil
}

// Delete removes the account and its sessions. The last active admin
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if current.Role == enums.RoleAdmin && current.IsActive {
		if err := s.requireAnotherActiveAdmin(ctx, id); err != nil {
			return err
		}
	}

	if s.sessions != nil {
		if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Service) requireAnotherActiveAdmin(ctx context.Context, excludeID int64) error {
	n, err := s.store.CountActiveAdmins(ctx, excludeID)
	if err != nil {
		return fmt.Errorf("count active admins: %w", err)
	}
	if n == 0 {
		return ErrLastAdmin
	}
	return nil
}
