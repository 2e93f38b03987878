package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
)

// CategoryRepository defines owner-scoped category persistence.
type CategoryRepository interface {
	// Create saves a new category.
	// Returns ErrCategoryExists when the owner already has a category with
	// the same name.
	Create(ctx context.Context, category *domain.Category) error

	// FindByOwnerAndID returns the category only if it belongs to ownerID.
	// Returns ErrCategoryNotFound otherwise.
	FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error)

	// FindByOwnerAndName looks up a category by its name within one owner.
	// Returns ErrCategoryNotFound otherwise.
	FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error)

	// ListByOwner returns every category owned by ownerID in insertion order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error)
}
