package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/config"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/service"
	"github.com/phrazzld/todofast-api/internal/service/auth"
	"github.com/phrazzld/todofast-api/internal/store/memory"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "service-test-access-secret-32-characters",
		JWTRefreshSecret:            "service-test-refresh-secret-32-characters",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
		BcryptCost:                  bcrypt.MinCost,
	}
}

// fixture wires every service against one in-memory store.
type fixture struct {
	store      *memory.Store
	tokens     auth.JWTService
	hasher     *auth.BcryptHasher
	auth       service.AuthService
	guard      *service.Guard
	tasks      service.TaskService
	categories service.CategoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New()
	tokens, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	authSvc, err := service.NewAuthService(st.Users(), hasher, tokens, nil)
	require.NoError(t, err)
	guard, err := service.NewGuard(tokens, st.Users(), nil)
	require.NoError(t, err)
	taskSvc, err := service.NewTaskService(st.Tasks(), st.Categories(), nil)
	require.NoError(t, err)
	categorySvc, err := service.NewCategoryService(st.Categories(), nil)
	require.NoError(t, err)

	return &fixture{
		store:      st,
		tokens:     tokens,
		hasher:     hasher,
		auth:       authSvc,
		guard:      guard,
		tasks:      taskSvc,
		categories: categorySvc,
	}
}

func (f *fixture) register(t *testing.T, username, email, password string) *domain.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), service.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T { return &v }

func newID() uuid.UUID { return uuid.New() }
