package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify mock of store.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

var _ store.UserRepository = (*MockUserRepository)(nil)

// Create implements store.UserRepository.
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID implements store.UserRepository.
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// FindByEmail implements store.UserRepository.
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// MockTaskRepository is a testify mock of store.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

var _ store.TaskRepository = (*MockTaskRepository)(nil)

// Create implements store.TaskRepository.
func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// FindByOwnerAndID implements store.TaskRepository.
func (m *MockTaskRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// ListByOwner implements store.TaskRepository.
func (m *MockTaskRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

// Update implements store.TaskRepository.
func (m *MockTaskRepository) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	fn store.TaskMutator,
) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, id, fn)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// DeleteByOwnerAndID implements store.TaskRepository.
func (m *MockTaskRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockCategoryRepository is a testify mock of store.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

var _ store.CategoryRepository = (*MockCategoryRepository)(nil)

// Create implements store.CategoryRepository.
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// FindByOwnerAndID implements store.CategoryRepository.
func (m *MockCategoryRepository) FindByOwnerAndID(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, id)
	category, _ := args.Get(0).(*domain.Category)
	return category, args.Error(1)
}

// FindByOwnerAndName implements store.CategoryRepository.
func (m *MockCategoryRepository) FindByOwnerAndName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, name)
	category, _ := args.Get(0).(*domain.Category)
	return category, args.Error(1)
}

// ListByOwner implements store.CategoryRepository.
func (m *MockCategoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, ownerID)
	categories, _ := args.Get(0).([]*domain.Category)
	return categories, args.Error(1)
}
