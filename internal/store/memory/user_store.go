package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
)

// UserStore is the in-memory store.UserRepository.
type UserStore struct {
	s *Store
}

// Create implements store.UserRepository.
func (r *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, exists := r.s.usersByEmail[email]; exists {
		return store.ErrEmailExists
	}
	if _, exists := r.s.usersByName[user.Username]; exists {
		return store.ErrUsernameExists
	}
	if _, exists := r.s.users[user.ID]; exists {
		return store.ErrDuplicate
	}

	stored := cloneUser(user)
	stored.Email = email
	r.s.users[user.ID] = stored
	r.s.usersByEmail[email] = user.ID
	r.s.usersByName[user.Username] = user.ID
	return nil
}

// GetByID implements store.UserRepository.
func (r *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// FindByEmail implements store.UserRepository.
func (r *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usersByEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(r.s.users[id]), nil
}
