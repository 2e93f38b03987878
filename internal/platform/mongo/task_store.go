package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/platform/logger"
	"github.com/phrazzld/todofast-api/internal/redact"
	"github.com/phrazzld/todofast-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxUpdateAttempts bounds the optimistic retry loop in Update.
const maxUpdateAttempts = 3

// errUpdateConflict is returned when a task keeps changing underneath Update.
var errUpdateConflict = errors.New("task modified concurrently")

// TaskStore implements store.TaskRepository on a MongoDB collection.
type TaskStore struct {
	db     *mongo.Database
	coll   *mongo.Collection
	logger *slog.Logger
}

var _ store.TaskRepository = (*TaskStore)(nil)

// Create implements store.TaskRepository.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	seq, err := nextSequence(ctx, s.db, tasksCollection)
	if err != nil {
		return MapError(err)
	}
	if _, err := s.coll.InsertOne(ctx, newTaskDocument(task, seq)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	return nil
}

// FindByOwnerAndID implements store.TaskRepository.
func (s *TaskStore) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	doc, err := s.findDocument(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// ListByOwner implements store.TaskRepository.
func (s *TaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	query, opts := buildListQuery(ownerID, filter)
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, doc := range docs {
		t, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Update implements store.TaskRepository. The replace is conditioned on the
// loaded version, so a concurrent writer forces a reload and a fresh
// application of fn.
func (s *TaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	fn store.TaskMutator,
) (*domain.Task, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		doc, err := s.findDocument(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		current, err := doc.toDomain()
		if err != nil {
			return nil, err
		}

		working := *current
		if err := fn(&working); err != nil {
			return nil, err
		}
		working.ID = current.ID
		working.OwnerID = current.OwnerID
		working.CreatedAt = current.CreatedAt
		if err := working.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		replacement := newTaskDocument(&working, doc.Seq)
		replacement.Version = doc.Version + 1

		result, err := s.coll.ReplaceOne(ctx,
			bson.D{
				{Key: "_id", Value: doc.ID},
				{Key: "owner_id", Value: doc.OwnerID},
				{Key: "version", Value: doc.Version},
			},
			replacement,
		)
		if err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
				slog.String("error", redact.Error(err)),
				slog.String("task_id", id.String()))
			return nil, MapError(err)
		}
		if result.MatchedCount == 1 {
			return &working, nil
		}
	}
	return nil, MapError(errUpdateConflict)
}

// DeleteByOwnerAndID implements store.TaskRepository.
func (s *TaskStore) DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := s.coll.DeleteOne(ctx, ownerScope(ownerID, id))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	if result.DeletedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) findDocument(ctx context.Context, ownerID, id uuid.UUID) (*taskDocument, error) {
	var doc taskDocument
	if err := s.coll.FindOne(ctx, ownerScope(ownerID, id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return &doc, nil
}

func ownerScope(ownerID, id uuid.UUID) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "owner_id", Value: ownerID.String()},
	}
}

// buildListQuery returns the filter and find options for ListByOwner.
// The title criterion is a literal, case-insensitive substring match.
func buildListQuery(ownerID uuid.UUID, filter domain.TaskFilter) (bson.D, *options.FindOptions) {
	query := bson.D{{Key: "owner_id", Value: ownerID.String()}}
	if filter.Status != nil {
		query = append(query, bson.E{Key: "status", Value: *filter.Status})
	}
	if filter.TitleContains != "" {
		query = append(query, bson.E{Key: "title", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.TitleContains),
			Options: "i",
		}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return query, opts
}
