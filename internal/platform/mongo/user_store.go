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
)

// UserStore implements store.UserRepository on a MongoDB collection.
type UserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

var _ store.UserRepository = (*UserStore)(nil)

// Create implements store.UserRepository.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if _, err := s.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		err = MapError(err)
		if !store.IsDuplicateError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to create user",
				slog.String("error", redact.Error(err)),
				slog.String("user_id", user.ID.String()))
		}
		return err
	}
	return nil
}

// GetByID implements store.UserRepository.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

// FindByEmail implements store.UserRepository.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	return doc.toDomain()
}
