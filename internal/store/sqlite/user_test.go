package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
)

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Email: "A@Example.com", DisplayName: "Alice", PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() should assign an ID")
	}
	if user.Email != "a@example.com" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "a@example.com")

	err := db.CreateUser(context.Background(), &model.User{Email: "a@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "a@example.com")

	found, err := db.GetUserByEmail(context.Background(), " A@example.COM ")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpsertGoogle_InsertsThenUpdates(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{GoogleID: "g-123", Email: "a@example.com", DisplayName: "Alice"}
	if err := db.UpsertGoogleUser(context.Background(), user); err != nil {
		t.Fatalf("first UpsertGoogleUser() error = %v", err)
	}
	firstID := user.ID
	if firstID == "" {
		t.Fatal("UpsertGoogleUser() should assign an ID on insert")
	}

	again := &model.User{GoogleID: "g-123", Email: "a@example.com", DisplayName: "Alice Renamed"}
	if err := db.UpsertGoogleUser(context.Background(), again); err != nil {
		t.Fatalf("second UpsertGoogleUser() error = %v", err)
	}
	if again.ID != firstID {
		t.Errorf("second upsert got ID %q, want the original %q", again.ID, firstID)
	}

	stored, err := db.GetUserByID(context.Background(), firstID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if stored.DisplayName != "Alice Renamed" {
		t.Errorf("DisplayName = %q, want refreshed value", stored.DisplayName)
	}
}

func TestUserCreate_MultiplePasswordAccounts(t *testing.T) {
	// google_id is NULL for password accounts; the UNIQUE constraint must
	// not collapse them.
	db := newTestDB(t)
	createTestUser(t, db, "a@example.com")
	createTestUser(t, db, "b@example.com")
}
