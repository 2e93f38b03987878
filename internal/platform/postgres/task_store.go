package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/platform/logger"
	"github.com/phrazzld/todofast-api/internal/redact"
	"github.com/phrazzld/todofast-api/internal/store"
)

// TaskStore implements store.TaskRepository on PostgreSQL. Every statement
// filters on owner_id, so a task owned by someone else is simply not found.
type TaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.TaskRepository = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore. Updates run in their own transaction, so
// it needs the pool rather than a store.DBTX.
func NewTaskStore(db *sql.DB, logger *slog.Logger) (*TaskStore, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}, nil
}

const taskColumns = `id, owner_id, category_id, title, description, status, created_at, updated_at`

// Create implements store.TaskRepository.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.ID,
		task.OwnerID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	return nil
}

// FindByOwnerAndID implements store.TaskRepository.
func (s *TaskStore) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return scanTask(row)
}

// ListByOwner implements store.TaskRepository. The title filter is a
// case-insensitive substring match; the value is never treated as a pattern.
func (s *TaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	query, args := buildListQuery(ownerID, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", redact.Error(err)),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

func buildListQuery(ownerID uuid.UUID, filter domain.TaskFilter) (string, []any) {
	var b strings.Builder
	args := []any{ownerID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	if filter.Status != nil {
		b.WriteString(` AND status = ` + next(*filter.Status))
	}
	if filter.TitleContains != "" {
		b.WriteString(` AND strpos(lower(title), lower(` + next(filter.TitleContains) + `)) > 0`)
	}
	b.WriteString(` ORDER BY seq`)
	if filter.Limit > 0 {
		b.WriteString(` LIMIT ` + next(filter.Limit))
	}
	if filter.Skip > 0 {
		b.WriteString(` OFFSET ` + next(filter.Skip))
	}
	return b.String(), args
}

// Update implements store.TaskRepository. The row is locked with
// SELECT ... FOR UPDATE while fn runs, so concurrent updates serialise.
func (s *TaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	fn store.TaskMutator,
) (*domain.Task, error) {
	var updated *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		current, err := scanTask(tx.QueryRowContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 AND id = $2 FOR UPDATE`, ownerID, id))
		if err != nil {
			return err
		}

		working := *current
		if err := fn(&working); err != nil {
			return err
		}
		working.ID = current.ID
		working.OwnerID = current.OwnerID
		working.CreatedAt = current.CreatedAt
		if err := working.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks
			SET category_id = $1, title = $2, description = $3, status = $4, updated_at = $5
			WHERE owner_id = $6 AND id = $7`,
			working.CategoryID,
			working.Title,
			working.Description,
			working.Status,
			working.UpdatedAt,
			ownerID,
			id,
		)
		if err != nil {
			return MapError(err)
		}
		updated = &working
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteByOwnerAndID implements store.TaskRepository.
func (s *TaskStore) DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t          domain.Task
		categoryID uuid.NullUUID
	)
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&categoryID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	if categoryID.Valid {
		id := categoryID.UUID
		t.CategoryID = &id
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
