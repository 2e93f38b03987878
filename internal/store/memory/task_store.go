package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
)

// TaskStore is the in-memory store.TaskRepository.
type TaskStore struct {
	s *Store
}

// Create implements store.TaskRepository.
func (r *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	r.s.tasks[task.ID] = cloneTask(task)
	r.s.taskOrder = append(r.s.taskOrder, task.ID)
	return nil
}

// FindByOwnerAndID implements store.TaskRepository.
func (r *TaskStore) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	task, ok := r.s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

// ListByOwner implements store.TaskRepository.
func (r *TaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Task, 0)
	skipped := 0
	for _, id := range r.s.taskOrder {
		task := r.s.tasks[id]
		if task.OwnerID != ownerID || !filter.Matches(task) {
			continue
		}
		if skipped < filter.Skip {
			skipped++
			continue
		}
		result = append(result, cloneTask(task))
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

// Update implements store.TaskRepository. The mutator runs under the write
// lock on a copy; the copy replaces the stored task only if fn succeeds.
func (r *TaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	fn store.TaskMutator,
) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.tasks[id]
	if !ok || current.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}

	working := cloneTask(current)
	if err := fn(working); err != nil {
		return nil, err
	}
	// Identity and ownership are immutable.
	working.ID = current.ID
	working.OwnerID = current.OwnerID
	working.CreatedAt = current.CreatedAt

	r.s.tasks[id] = working
	return cloneTask(working), nil
}

// DeleteByOwnerAndID implements store.TaskRepository.
func (r *TaskStore) DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	r.s.taskOrder = slices.DeleteFunc(r.s.taskOrder, func(v uuid.UUID) bool { return v == id })
	return nil
}
