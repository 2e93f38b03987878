package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	CategoryID  *uuid.UUID
}

// TaskService provides owner-scoped task operations. Every method takes the
// caller's user ID; tasks owned by anyone else behave as if absent.
type TaskService interface {
	// ListTasks returns the owner's tasks matching filter. A zero Limit means
	// no limit; callers that want a page size must set one.
	ListTasks(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)

	// CreateTask creates a pending task. A category, when given, must belong
	// to the owner; otherwise ErrCategoryNotFound.
	CreateTask(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*domain.Task, error)

	// GetTask returns one task or ErrTaskNotFound.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update and refreshes UpdatedAt.
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes one task or returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	tasks      store.TaskRepository
	categories store.CategoryRepository
	now        func() time.Time
	logger     *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskRepository,
	categories store.CategoryRepository,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, errors.New("tasks cannot be nil")
	}
	if categories == nil {
		return nil, errors.New("categories cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:      tasks,
		categories: categories,
		now:        time.Now,
		logger:     logger.With("component", "task_service"),
	}, nil
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) (tasks []*domain.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.ListTasks", ownerID)
	defer func() { endSpan(span, err) }()

	if err := filter.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	tasks, err = s.tasks.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list tasks", "error", err, "owner_id", ownerID)
		return nil, storageError("list tasks", err, nil)
	}
	return tasks, nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	in CreateTaskInput,
) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.CreateTask", ownerID)
	defer func() { endSpan(span, err) }()

	task, err = domain.NewTask(ownerID, in.Title, in.Description, in.CategoryID)
	if err != nil {
		return nil, invalidInput(err)
	}

	if in.CategoryID != nil {
		if _, err := s.categories.FindByOwnerAndID(ctx, ownerID, *in.CategoryID); err != nil {
			if store.IsNotFoundError(err) {
				s.logger.DebugContext(ctx, "task category not owned by caller",
					"owner_id", ownerID,
					"category_id", *in.CategoryID)
			} else {
				s.logger.ErrorContext(ctx, "failed to resolve task category", "error", err)
			}
			return nil, storageError("resolve category", err, ErrCategoryNotFound)
		}
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.ErrorContext(ctx, "failed to save task", "error", err, "owner_id", ownerID)
		return nil, storageError("create task", err, nil)
	}

	s.logger.DebugContext(ctx, "task created", "task_id", task.ID, "owner_id", ownerID)
	return task, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.GetTask", ownerID)
	defer func() { endSpan(span, err) }()

	task, err = s.tasks.FindByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		s.logLookupFailure(ctx, "failed to get task", err, taskID)
		return nil, storageError("get task", err, ErrTaskNotFound)
	}
	return task, nil
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.UpdateTask", ownerID)
	defer func() { endSpan(span, err) }()

	if err := patch.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	task, err = s.tasks.Update(ctx, ownerID, taskID, func(t *domain.Task) error {
		return t.Apply(patch, s.now())
	})
	if err != nil {
		s.logLookupFailure(ctx, "failed to update task", err, taskID)
		return nil, storageError("update task", err, ErrTaskNotFound)
	}

	s.logger.DebugContext(ctx, "task updated", "task_id", taskID, "owner_id", ownerID)
	return task, nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "TaskService.DeleteTask", ownerID)
	defer func() { endSpan(span, err) }()

	if err := s.tasks.DeleteByOwnerAndID(ctx, ownerID, taskID); err != nil {
		s.logLookupFailure(ctx, "failed to delete task", err, taskID)
		return storageError("delete task", err, ErrTaskNotFound)
	}

	s.logger.DebugContext(ctx, "task deleted", "task_id", taskID, "owner_id", ownerID)
	return nil
}

// logLookupFailure logs absent tasks at debug and everything else at error.
func (s *taskServiceImpl) logLookupFailure(ctx context.Context, msg string, err error, taskID uuid.UUID) {
	if store.IsNotFoundError(err) {
		s.logger.DebugContext(ctx, msg, "error", err, "task_id", taskID)
		return
	}
	s.logger.ErrorContext(ctx, msg, "error", err, "task_id", taskID)
}
