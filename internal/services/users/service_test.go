package users

import (
	"context"
	"errors"
	"testing"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/enums"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/security"
)

type memoryUserStore struct {
	nextID int64
	users  map[int64]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, users: map[int64]model.User{}}
}

func (m *memoryUserStore) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryUserStore) Get(_ context.Context, id int64) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *memoryUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return model.User{}, ErrEmailTaken
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserStore) Update(_ context.Context, user model.User) (model.User, error) {
	if _, ok := m.users[user.ID]; !ok {
		return model.User{}, ErrNotFound
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUserStore) CountActiveAdmins(_ context.Context, excludeID int64) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.ID != excludeID && u.Role == enums.RoleAdmin && u.IsActive {
			n++
		}
	}
	return n, nil
}

type recordingRevoker struct {
	revoked []int64
}

func (r *recordingRevoker) DeleteAllForUser(_ context.Context, userID int64) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

func newUsersServiceForTest() (*Service, *memoryUserStore, *recordingRevoker) {
	store := newMemoryUserStore()
	revoker := &recordingRevoker{}
	return NewService(store, revoker, 4), store, revoker
}

func TestCreateUserHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, store, _ := newUsersServiceForTest()
	ctx := context.Background()

	user, err := svc.Create(ctx, "  Dean@Dept.EDU ", "sup3r-secret", "Dean Sharma", "Editor")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "dean@dept.edu" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != enums.RoleEditor {
		t.Fatalf("role = %q", user.Role)
	}
	if user.PasswordHash != "" {
		t.Fatalf("hash leaked in response")
	}

	stored := store.users[user.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "sup3r-secret" {
		t.Fatalf("password stored in clear or missing")
	}
	if err := security.CheckPassword(stored.PasswordHash, "sup3r-secret"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	svc, _, _ := newUsersServiceForTest()
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		fullName string
		role     string
	}{
		{"bad email", "not-an-email", "longenough", "A B", "viewer"},
		{"short password", "a@dept.edu", "short", "A B", "viewer"},
		{"blank name", "a@dept.edu", "longenough", "   ", "viewer"},
		{"unknown role", "a@dept.edu", "longenough", "A B", "owner"},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.email, tc.password, tc.fullName, tc.role); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: got %v, want ErrValidation", tc.name, err)
		}
	}

	if _, err := svc.Create(ctx, "dup@dept.edu", "longenough", "A B", "viewer"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, "DUP@dept.edu", "longenough", "C D", "viewer"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}
}

func TestLastActiveAdminIsProtected(t *testing.T) {
	svc, _, _ := newUsersServiceForTest()
	ctx := context.Background()

	admin, err := svc.Create(ctx, "admin@dept.edu", "longenough", "Only Admin", "admin")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if err := svc.Delete(ctx, admin.ID); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("delete last admin: got %v, want ErrLastAdmin", err)
	}
	if _, err := svc.Update(ctx, admin.ID, "Only Admin", "editor", true); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("demote last admin: got %v, want ErrLastAdmin", err)
	}
	if _, err := svc.Update(ctx, admin.ID, "Only Admin", "admin", false); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("deactivate last admin: got %v, want ErrLastAdmin", err)
	}

	second, err := svc.Create(ctx, "admin2@dept.edu", "longenough", "Second Admin", "admin")
	if err != nil {
		t.Fatalf("create second admin: %v", err)
	}
	if _, err := svc.Update(ctx, admin.ID, "Only Admin", "editor", true); err != nil {
		t.Fatalf("demotion with a second admin present: %v", err)
	}
	if err := svc.Delete(ctx, second.ID); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("second admin became the last one: got %v, want ErrLastAdmin", err)
	}
}

func TestDeactivationRevokesSessions(t *testing.T) {
	svc, _, revoker := newUsersServiceForTest()
	ctx := context.Background()

	user, err := svc.Create(ctx, "viewer@dept.edu", "longenough", "V Iyer", "viewer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, user.ID, "V Iyer", "viewer", true); err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if len(revoker.revoked) != 0 {
		t.Fatalf("active update must not revoke sessions")
	}

	if _, err := svc.Update(ctx, user.ID, "V Iyer", "viewer", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != user.ID {
		t.Fatalf("deactivation did not revoke sessions: %v", revoker.revoked)
	}
}

func TestDeleteRevokesSessionsAndRemovesUser(t *testing.T) {
	svc, store, revoker := newUsersServiceForTest()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "admin@dept.edu", "longenough", "Admin", "admin"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	user, err := svc.Create(ctx, "editor@dept.edu", "longenough", "Editor", "editor")
	if err != nil {
		t.Fatalf("create editor: %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.users[user.ID]; ok {
		t.Fatalf("user row survived delete")
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != user.ID {
		t.Fatalf("delete did not revoke sessions: %v", revoker.revoked)
	}

	if err := svc.Delete(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete of missing user: got %v, want ErrNotFound", err)
	}
}
