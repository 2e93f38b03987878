package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
)

// TaskMutator edits a task inside an update. Returning an error aborts the
// update and nothing is written.
type TaskMutator func(task *domain.Task) error

// TaskRepository defines owner-scoped task persistence.
type TaskRepository interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// FindByOwnerAndID returns the task only if it belongs to ownerID.
	// Returns ErrTaskNotFound when it does not exist or is owned by someone else.
	FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// ListByOwner returns the owner's tasks matching filter in insertion order.
	// A zero Limit means no limit.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)

	// Update loads the owner's task, applies fn and persists the result.
	// Returns ErrTaskNotFound when the task is absent or owned by someone else.
	Update(ctx context.Context, ownerID, id uuid.UUID, fn TaskMutator) (*domain.Task, error)

	// DeleteByOwnerAndID removes the owner's task.
	// Returns ErrTaskNotFound when the task is absent or owned by someone else.
	DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) error
}
