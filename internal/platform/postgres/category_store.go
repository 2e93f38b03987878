package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/platform/logger"
	"github.com/phrazzld/todofast-api/internal/redact"
	"github.com/phrazzld/todofast-api/internal/store"
)

// CategoryStore implements store.CategoryRepository on PostgreSQL. The
// (owner_id, name) unique constraint is the authority on duplicate names.
type CategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.CategoryRepository = (*CategoryStore)(nil)

// NewCategoryStore creates a CategoryStore. It returns an error if db is nil.
func NewCategoryStore(db store.DBTX, logger *slog.Logger) (*CategoryStore, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}, nil
}

const categoryColumns = `id, owner_id, name, color, created_at`

// Create implements store.CategoryRepository.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		category.ID,
		category.OwnerID,
		category.Name,
		category.Color,
		category.CreatedAt,
	)
	if err != nil {
		err = MapError(err)
		if !store.IsDuplicateError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to create category",
				slog.String("error", redact.Error(err)),
				slog.String("category_id", category.ID.String()))
		}
		return err
	}
	return nil
}

// FindByOwnerAndID implements store.CategoryRepository.
func (s *CategoryStore) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return scanCategory(row)
}

// FindByOwnerAndName implements store.CategoryRepository.
func (s *CategoryStore) FindByOwnerAndName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 AND name = $2`, ownerID, name)
	return scanCategory(row)
}

// ListByOwner implements store.CategoryRepository.
func (s *CategoryStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 ORDER BY seq`, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list categories",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return categories, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, MapError(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
