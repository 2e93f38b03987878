package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/mocks"
	"github.com/phrazzld/todofast-api/internal/service"
	"github.com/phrazzld/todofast-api/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := newID(), newID()

	t.Run("defaults", func(t *testing.T) {
		task, err := f.tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Buy milk", Description: "2L"})
		require.NoError(t, err)
		assert.False(t, task.Status)
		assert.Equal(t, alice, task.OwnerID)
		assert.Nil(t, task.CategoryID)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	})

	t.Run("own category", func(t *testing.T) {
		work, err := f.categories.CreateCategory(ctx, alice, "Work", nil)
		require.NoError(t, err)

		task, err := f.tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Report", CategoryID: &work.ID})
		require.NoError(t, err)
		require.NotNil(t, task.CategoryID)
		assert.Equal(t, work.ID, *task.CategoryID)
	})

	t.Run("someone else's category is not found", func(t *testing.T) {
		bobs, err := f.categories.CreateCategory(ctx, bob, "Private", nil)
		require.NoError(t, err)

		_, err = f.tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Sneaky", CategoryID: &bobs.ID})
		assert.ErrorIs(t, err, service.ErrCategoryNotFound)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("nonexistent category is not found", func(t *testing.T) {
		_, err := f.tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Ghost", CategoryID: ptr(uuid.New())})
		assert.ErrorIs(t, err, service.ErrCategoryNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "ab"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestTaskOwnershipIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := newID(), newID()

	task, err := f.tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Alice only"})
	require.NoError(t, err)

	_, err = f.tasks.GetTask(ctx, bob, task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = f.tasks.UpdateTask(ctx, bob, task.ID, domain.TaskPatch{Status: ptr(true)})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	assert.ErrorIs(t, f.tasks.DeleteTask(ctx, bob, task.ID), service.ErrTaskNotFound)

	list, err := f.tasks.ListTasks(ctx, bob, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// Absent and foreign look identical.
	_, absentErr := f.tasks.GetTask(ctx, bob, uuid.New())
	_, foreignErr := f.tasks.GetTask(ctx, bob, task.ID)
	assert.Equal(t, absentErr.Error(), foreignErr.Error())

	got, err := f.tasks.GetTask(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Status)
}

func TestUpdateTask_Partial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := newID()

	task, err := f.tasks.CreateTask(ctx, owner, service.CreateTaskInput{Title: "Original", Description: "keep me"})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	updated, err := f.tasks.UpdateTask(ctx, owner, task.ID, domain.TaskPatch{Status: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Status)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)

	roundTrip, err := f.tasks.GetTask(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, roundTrip)

	t.Run("invalid field leaves task unchanged", func(t *testing.T) {
		_, err := f.tasks.UpdateTask(ctx, owner, task.ID, domain.TaskPatch{Title: ptr("no")})
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		got, err := f.tasks.GetTask(ctx, owner, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Title)
	})

	t.Run("empty patch refreshes updatedAt", func(t *testing.T) {
		before, err := f.tasks.GetTask(ctx, owner, task.ID)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)

		after, err := f.tasks.UpdateTask(ctx, owner, task.ID, domain.TaskPatch{})
		require.NoError(t, err)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := newID()

	for _, title := range []string{"abc one", "xABCx", "other", "ab c"} {
		_, err := f.tasks.CreateTask(ctx, owner, service.CreateTaskInput{Title: title})
		require.NoError(t, err)
	}
	for i := 0; i < 12; i++ {
		_, err := f.tasks.CreateTask(ctx, owner, service.CreateTaskInput{Title: "filler task"})
		require.NoError(t, err)
	}
	_, err := f.tasks.CreateTask(ctx, newID(), service.CreateTaskInput{Title: "abc foreign"})
	require.NoError(t, err)

	t.Run("title filter is case-insensitive and owner scoped", func(t *testing.T) {
		list, err := f.tasks.ListTasks(ctx, owner, domain.TaskFilter{TitleContains: "abc"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "abc one", list[0].Title)
		assert.Equal(t, "xABCx", list[1].Title)
	})

	t.Run("zero limit returns every match", func(t *testing.T) {
		list, err := f.tasks.ListTasks(ctx, owner, domain.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, list, 16)
	})

	t.Run("explicit limit and skip", func(t *testing.T) {
		list, err := f.tasks.ListTasks(ctx, owner, domain.TaskFilter{Limit: 3, Skip: 2})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "other", list[0].Title)
	})

	t.Run("negative values are invalid", func(t *testing.T) {
		_, err := f.tasks.ListTasks(ctx, owner, domain.TaskFilter{Limit: -1})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		_, err = f.tasks.ListTasks(ctx, owner, domain.TaskFilter{Skip: -1})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := f.tasks.ListTasks(ctx, owner, domain.TaskFilter{Status: ptr(true)})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestTaskService_StorageFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner, taskID := newID(), newID()
	boom := errors.New("disk on fire")

	tasks := &mocks.MockTaskRepository{}
	tasks.On("ListByOwner", mock.Anything, owner, mock.Anything).Return(nil, boom)
	tasks.On("FindByOwnerAndID", mock.Anything, owner, taskID).Return(nil, boom)
	tasks.On("Update", mock.Anything, owner, taskID, mock.Anything).Return(nil, boom)
	tasks.On("DeleteByOwnerAndID", mock.Anything, owner, taskID).Return(boom)
	tasks.On("Create", mock.Anything, mock.Anything).Return(boom)

	svc, err := service.NewTaskService(tasks, memory.New().Categories(), nil)
	require.NoError(t, err)

	_, err = svc.ListTasks(ctx, owner, domain.TaskFilter{})
	assert.ErrorIs(t, err, service.ErrUnavailable)
	_, err = svc.GetTask(ctx, owner, taskID)
	assert.ErrorIs(t, err, service.ErrUnavailable)
	_, err = svc.UpdateTask(ctx, owner, taskID, domain.TaskPatch{})
	assert.ErrorIs(t, err, service.ErrUnavailable)
	assert.ErrorIs(t, svc.DeleteTask(ctx, owner, taskID), service.ErrUnavailable)
	_, err = svc.CreateTask(ctx, owner, service.CreateTaskInput{Title: "Valid"})
	assert.ErrorIs(t, err, service.ErrUnavailable)
	assert.ErrorIs(t, err, boom)

	tasks.AssertExpectations(t)
}

func TestListTasks_PassesFilterToStoreUnchanged(t *testing.T) {
	t.Parallel()
	owner := newID()

	tasks := &mocks.MockTaskRepository{}
	tasks.On("ListByOwner", mock.Anything, owner, domain.TaskFilter{TitleContains: "x"}).
		Return([]*domain.Task{}, nil)

	svc, err := service.NewTaskService(tasks, &mocks.MockCategoryRepository{}, nil)
	require.NoError(t, err)

	_, err = svc.ListTasks(context.Background(), owner, domain.TaskFilter{TitleContains: "x"})
	require.NoError(t, err)
	tasks.AssertExpectations(t)
}
