package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminUserRepository defines the interface for admin account persistence
type AdminUserRepository interface {
	// Create creates a new account; a taken email yields shared.ErrAlreadyExists
	Create(ctx context.Context, user *AdminUser) error

	// Update updates an existing account
	Update(ctx context.Context, user *AdminUser) error

	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)

	// FindByEmail finds an account by its (lower-cased) email
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
