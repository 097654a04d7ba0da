package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/isdelr/signup-otp-be/internal/database"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (*UserService, *EventService) {
	t.Helper()
	db := database.NewInMemory(t)
	events := NewEventService(db)
	return NewUserService(db, BcryptHasher{Cost: bcrypt.MinCost}, events), events
}

func strPtr(s string) *string { return &s }

func TestCreateAndListUsers(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "asha", "asha@example.com", "s3cret")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id")
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user got %d", len(users))
	}
	if users[0].Username != "asha" || users[0].Email != "asha@example.com" || users[0].PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", users[0])
	}
}

func TestListUsersEmpty(t *testing.T) {
	svc, _ := newTestUserService(t)
	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", users)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	cases := []struct{ username, email, password string }{
		{"", "a@example.com", "pw"},
		{"a", "", "pw"},
		{"a", "a@example.com", ""},
		{"   ", "a@example.com", "pw"},
	}
	for _, tc := range cases {
		if _, err := svc.CreateUser(ctx, tc.username, tc.email, tc.password); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", tc, err)
		}
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "asha", "asha@example.com", "pw1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateUser(ctx, "asha", "other@example.com", "pw2"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists for username, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, "ravi", "asha@example.com", "pw3"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists for email, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "asha", "asha@example.com", "s3cret"); err != nil {
		t.Fatalf("create: %v", err)
	}

	user, err := svc.AuthenticateUser(ctx, "asha", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}

	if _, err := svc.AuthenticateUser(ctx, "asha", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.AuthenticateUser(ctx, "nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "asha", "asha@example.com", "pw")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateUser(ctx, created.ID, UserUpdate{Email: strPtr("asha@new.example.com")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Username != "asha" || updated.Email != "asha@new.example.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	stored, err := svc.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored != updated {
		t.Fatalf("stored %+v differs from returned %+v", stored, updated)
	}

	// Password is untouched by profile updates.
	if _, err := svc.AuthenticateUser(ctx, "asha", "pw"); err != nil {
		t.Fatalf("authenticate after update: %v", err)
	}
}

func TestUpdateUserErrors(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.UpdateUser(ctx, 42, UserUpdate{Username: strPtr("x")}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	a, _ := svc.CreateUser(ctx, "asha", "asha@example.com", "pw1")
	if _, err := svc.CreateUser(ctx, "ravi", "ravi@example.com", "pw2"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateUser(ctx, a.ID, UserUpdate{Username: strPtr("ravi")}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := svc.UpdateUser(ctx, a.ID, UserUpdate{Username: strPtr("  ")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateUserRejectsOverlongPassword(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.CreateUser(context.Background(), "asha", "asha@example.com", strings.Repeat("p", 73))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), "asha", "asha@example.com", strings.Repeat("p", 72)); err != nil {
		t.Fatalf("72-byte password should be accepted: %v", err)
	}
}

func TestUpdateUserRowVanishes(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "asha", "asha@example.com", "pw1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Skip every row update so the write matches nothing after the read succeeded.
	if _, err := svc.db.ExecContext(ctx,
		`CREATE TRIGGER skip_user_updates BEFORE UPDATE ON users BEGIN SELECT RAISE(IGNORE); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if _, err := svc.UpdateUser(ctx, u.ID, UserUpdate{Email: strPtr("new@example.com")}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	a, _ := svc.CreateUser(ctx, "asha", "asha@example.com", "pw1")
	b, _ := svc.CreateUser(ctx, "ravi", "ravi@example.com", "pw2")

	if err := svc.DeleteUser(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteUser(ctx, a.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].ID != b.ID {
		t.Fatalf("expected only ravi with original id %d, got %+v", b.ID, users)
	}
}

func TestUserLifecycleRecordsEvents(t *testing.T) {
	svc, events := newTestUserService(t)
	ctx := context.Background()

	u, _ := svc.CreateUser(ctx, "asha", "asha@example.com", "pw")
	if _, err := svc.UpdateUser(ctx, u.ID, UserUpdate{Username: strPtr("asha2")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	recent, err := events.GetRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 events got %d", len(recent))
	}
	seen := map[string]bool{}
	for _, e := range recent {
		seen[e.Type] = true
	}
	for _, typ := range []string{EventUserCreated, EventUserUpdated, EventUserDeleted} {
		if !seen[typ] {
			t.Fatalf("missing event %s in %+v", typ, recent)
		}
	}
}
