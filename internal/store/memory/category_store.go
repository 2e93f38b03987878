package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
)

// CategoryStore is the in-memory store.CategoryRepository.
type CategoryStore struct {
	s *Store
}

// Create implements store.CategoryRepository.
func (r *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := categoryKey{owner: category.OwnerID, name: category.Name}
	if _, exists := r.s.categoryByName[key]; exists {
		return store.ErrCategoryExists
	}
	if _, exists := r.s.categories[category.ID]; exists {
		return store.ErrDuplicate
	}

	r.s.categories[category.ID] = cloneCategory(category)
	r.s.categoryByName[key] = category.ID
	r.s.categoryOrder = append(r.s.categoryOrder, category.ID)
	return nil
}

// FindByOwnerAndID implements store.CategoryRepository.
func (r *CategoryStore) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category, ok := r.s.categories[id]
	if !ok || category.OwnerID != ownerID {
		return nil, store.ErrCategoryNotFound
	}
	return cloneCategory(category), nil
}

// FindByOwnerAndName implements store.CategoryRepository.
func (r *CategoryStore) FindByOwnerAndName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.categoryByName[categoryKey{owner: ownerID, name: name}]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	return cloneCategory(r.s.categories[id]), nil
}

// ListByOwner implements store.CategoryRepository.
func (r *CategoryStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Category, 0)
	for _, id := range r.s.categoryOrder {
		if c := r.s.categories[id]; c.OwnerID == ownerID {
			result = append(result, cloneCategory(c))
		}
	}
	return result, nil
}
