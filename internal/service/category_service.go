package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
)

// CategoryService provides owner-scoped category operations.
type CategoryService interface {
	// CreateCategory creates a category. A nil color selects
	// domain.DefaultCategoryColor. Returns ErrCategoryExists when the owner
	// already has a category with this name.
	CreateCategory(ctx context.Context, ownerID uuid.UUID, name string, color *string) (*domain.Category, error)

	// ListCategories returns every category the owner has created.
	ListCategories(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error)
}

type categoryServiceImpl struct {
	categories store.CategoryRepository
	logger     *slog.Logger
}

var _ CategoryService = (*categoryServiceImpl)(nil)

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories store.CategoryRepository, logger *slog.Logger) (CategoryService, error) {
	if categories == nil {
		return nil, errors.New("categories cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryServiceImpl{
		categories: categories,
		logger:     logger.With("component", "category_service"),
	}, nil
}

// CreateCategory implements CategoryService.
func (s *categoryServiceImpl) CreateCategory(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
	color *string,
) (category *domain.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.CreateCategory", ownerID)
	defer func() { endSpan(span, err) }()

	category, err = domain.NewCategory(ownerID, name, color)
	if err != nil {
		return nil, invalidInput(err)
	}

	// Friendly early rejection; the store's uniqueness rule is authoritative.
	if _, err := s.categories.FindByOwnerAndName(ctx, ownerID, category.Name); err == nil {
		s.logger.DebugContext(ctx, "category name already used", "owner_id", ownerID)
		return nil, ErrCategoryExists
	} else if !store.IsNotFoundError(err) {
		s.logger.ErrorContext(ctx, "failed to check category name", "error", err)
		return nil, storageError("check category name", err, nil)
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.DebugContext(ctx, "category rejected by unique constraint", "owner_id", ownerID)
		} else {
			s.logger.ErrorContext(ctx, "failed to save category", "error", err)
		}
		return nil, storageError("create category", err, nil)
	}

	s.logger.DebugContext(ctx, "category created", "category_id", category.ID, "owner_id", ownerID)
	return category, nil
}

// ListCategories implements CategoryService.
func (s *categoryServiceImpl) ListCategories(
	ctx context.Context,
	ownerID uuid.UUID,
) (categories []*domain.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.ListCategories", ownerID)
	defer func() { endSpan(span, err) }()

	categories, err = s.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list categories", "error", err, "owner_id", ownerID)
		return nil, storageError("list categories", err, nil)
	}
	return categories, nil
}
