package store

import (
	"context"

	"github.com/sakif/snipvault/internal/model"
)

// UserStore persists accounts. It backs both sign-in paths: Google OAuth
// (UpsertGoogleUser) and email/password (CreateUser + GetUserByEmail).
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// CreateUser inserts a password account. Fails with
	// apperror.ErrConflict if the email is already registered.
	CreateUser(ctx context.Context, user *model.User) error
	// UpsertGoogleUser inserts the user on first Google sign-in, or
	// refreshes email, display name and avatar on subsequent ones. The
	// user's internal ID is filled in either way.
	UpsertGoogleUser(ctx context.Context, user *model.User) error
}
