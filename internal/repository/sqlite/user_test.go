package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
)

// createTestUser upserts a contributor and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, githubID int64, login string) *model.User {
	t.Helper()
	user := &model.User{
		GitHubID:  githubID,
		Login:     login,
		Email:     login + "@example.com",
		AvatarURL: "https://avatars.githubusercontent.com/u/123",
		Role:      model.RoleContributor,
	}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// UPSERT TESTS
// =========================================================================

func TestUserUpsert_NewUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		GitHubID: 12345,
		Login:    "octocat",
		Role:     model.RoleMaintainer,
	}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Upsert() did not set user.ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Upsert() did not set timestamps")
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Role != model.RoleMaintainer {
		t.Errorf("Role = %q, want %q", found.Role, model.RoleMaintainer)
	}
}

func TestUserUpsert_DefaultsRoleToContributor(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{GitHubID: 1, Login: "norole"}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if user.Role != model.RoleContributor {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleContributor)
	}
}

func TestUserUpsert_ExistingUser_UpdatesProfile(t *testing.T) {
	db := newTestDB(t)
	original := createTestUser(t, db, 555, "oldlogin")

	updated := &model.User{
		GitHubID:  555,
		Login:     "newlogin",
		Email:     "new@example.com",
		AvatarURL: "https://example.com/new.png",
		Role:      model.RoleCompany,
	}
	if err := db.Upsert(context.Background(), updated); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if updated.ID != original.ID {
		t.Errorf("ID changed: got %q, want %q", updated.ID, original.ID)
	}

	found, err := db.GetUserByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Login != "newlogin" {
		t.Errorf("Login = %q, want %q", found.Login, "newlogin")
	}
	if found.Email != "new@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "new@example.com")
	}
	if found.Role != model.RoleCompany {
		t.Errorf("Role = %q, want %q", found.Role, model.RoleCompany)
	}
}

func TestUserUpsert_DoesNotChangeCreatedAt(t *testing.T) {
	db := newTestDB(t)
	original := createTestUser(t, db, 777, "stable")

	time.Sleep(10 * time.Millisecond)

	again := &model.User{GitHubID: 777, Login: "stable"}
	if err := db.Upsert(context.Background(), again); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	found, err := db.GetUserByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if !found.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", found.CreatedAt, original.CreatedAt)
	}
}

// =========================================================================
// GET BY ID TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, 111, "getbyid_user")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Login != "getbyid_user" {
		t.Errorf("Login = %q, want %q", found.Login, "getbyid_user")
	}
	if found.GitHubID != 111 {
		t.Errorf("GitHubID = %d, want %d", found.GitHubID, 111)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}
