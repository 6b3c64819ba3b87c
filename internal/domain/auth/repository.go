package auth

import (
	"context"

	"gims/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves user by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates user data.
	Update(ctx context.Context, user *User) error

	// LoadPermissions loads user's permissions (flattened from role).
	LoadPermissions(ctx context.Context, userID id.ID) ([]string, error)

	// Exists checks if email exists.
	Exists(ctx context.Context, email string) (bool, error)
}
