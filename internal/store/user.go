package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
)

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	// Create saves a new user.
	// Returns ErrEmailExists or ErrUsernameExists when the backend's unique
	// constraint rejects the insert; this is authoritative over any earlier
	// existence check made by the caller.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindByEmail retrieves a user by their (normalised) email address.
	// Returns ErrUserNotFound if the user does not exist.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
