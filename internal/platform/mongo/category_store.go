package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/platform/logger"
	"github.com/phrazzld/todofast-api/internal/redact"
	"github.com/phrazzld/todofast-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryStore implements store.CategoryRepository on a MongoDB collection.
type CategoryStore struct {
	db     *mongo.Database
	coll   *mongo.Collection
	logger *slog.Logger
}

var _ store.CategoryRepository = (*CategoryStore)(nil)

// Create implements store.CategoryRepository.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	seq, err := nextSequence(ctx, s.db, categoriesCollection)
	if err != nil {
		return MapError(err)
	}
	if _, err := s.coll.InsertOne(ctx, newCategoryDocument(category, seq)); err != nil {
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
	return s.findOne(ctx, bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "owner_id", Value: ownerID.String()},
	})
}

// FindByOwnerAndName implements store.CategoryRepository.
func (s *CategoryStore) FindByOwnerAndName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Category, error) {
	return s.findOne(ctx, bson.D{
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "name", Value: name},
	})
}

// ListByOwner implements store.CategoryRepository.
func (s *CategoryStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	cursor, err := s.coll.Find(ctx,
		bson.D{{Key: "owner_id", Value: ownerID.String()}},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list categories",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}

	categories := make([]*domain.Category, 0, len(docs))
	for _, doc := range docs {
		c, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (s *CategoryStore) findOne(ctx context.Context, filter bson.D) (*domain.Category, error) {
	var doc categoryDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, MapError(err)
	}
	return doc.toDomain()
}
