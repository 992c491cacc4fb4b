package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserStorage abstracts user persistence. The postgres implementation lives
// in internal/storage; tests use in-memory fakes.
type UserStorage interface {
	// CreateUser persists a new user. Returns ErrEmailAlreadyExists when the
	// email is already taken.
	CreateUser(ctx context.Context, user *User) error
	// GetUserByID returns ErrUserNotFound when no user matches.
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetUserByEmail returns ErrUserNotFound when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, user *User) error
}
