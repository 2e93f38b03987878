package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/mocks"
	"github.com/phrazzld/todofast-api/internal/service"
	"github.com/phrazzld/todofast-api/internal/service/auth"
	"github.com/phrazzld/todofast-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAuthService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := &mocks.MockJWTService{}
	users := &mocks.MockUserRepository{}

	_, err = service.NewAuthService(nil, hasher, tokens, nil)
	assert.Error(t, err)
	_, err = service.NewAuthService(users, nil, tokens, nil)
	assert.Error(t, err)
	_, err = service.NewAuthService(users, hasher, nil, nil)
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores hashed password and normalised email", func(t *testing.T) {
		f := newFixture(t)
		user := f.register(t, "alice1", "Alice@Example.com", "secret1")

		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "secret1", user.HashedPassword)
		assert.True(t, f.hasher.Verify("secret1", user.HashedPassword))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice1", "alice@example.com", "secret1")

		_, err := f.auth.Register(ctx, service.RegisterInput{
			Username: "alice2", Email: "ALICE@example.com", Password: "secret2",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice1", "alice@example.com", "secret1")

		_, err := f.auth.Register(ctx, service.RegisterInput{
			Username: "alice1", Email: "other@example.com", Password: "secret2",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
		assert.ErrorIs(t, err, service.ErrUsernameTaken)
	})

	invalid := []struct {
		name string
		in   service.RegisterInput
	}{
		{"short username", service.RegisterInput{Username: "abc", Email: "a@example.com", Password: "secret1"}},
		{"bad email", service.RegisterInput{Username: "alice1", Email: "not-an-email", Password: "secret1"}},
		{"short password", service.RegisterInput{Username: "alice1", Email: "a@example.com", Password: "abc"}},
		{"long password", service.RegisterInput{Username: "alice1", Email: "a@example.com", Password: "abcdefghijklmnopqrstu"}},
		{"empty password", service.RegisterInput{Username: "alice1", Email: "a@example.com", Password: ""}},
		{"password over 72 bytes", service.RegisterInput{
			Username: "alice1", Email: "a@example.com", Password: strings.Repeat("😀", 20),
		}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.auth.Register(ctx, tt.in)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	t.Run("storage failure is unavailable", func(t *testing.T) {
		users := &mocks.MockUserRepository{}
		users.On("FindByEmail", mock.Anything, "bob@example.com").
			Return(nil, errors.New("connection refused"))

		hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
		require.NoError(t, err)
		svc, err := service.NewAuthService(users, hasher, &mocks.MockJWTService{}, nil)
		require.NoError(t, err)

		_, err = svc.Register(ctx, service.RegisterInput{
			Username: "bobby", Email: "bob@example.com", Password: "secret1",
		})
		assert.ErrorIs(t, err, service.ErrUnavailable)
		users.AssertExpectations(t)
	})

	t.Run("constraint violation after passing pre-check is a conflict", func(t *testing.T) {
		users := &mocks.MockUserRepository{}
		users.On("FindByEmail", mock.Anything, "bob@example.com").Return(nil, store.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(store.ErrEmailExists)

		hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
		require.NoError(t, err)
		svc, err := service.NewAuthService(users, hasher, &mocks.MockJWTService{}, nil)
		require.NoError(t, err)

		_, err = svc.Register(ctx, service.RegisterInput{
			Username: "bobby", Email: "bob@example.com", Password: "secret1",
		})
		assert.ErrorIs(t, err, service.ErrEmailTaken)
		users.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	user := f.register(t, "alice1", "alice@example.com", "secret1")

	t.Run("success issues a verifiable pair", func(t *testing.T) {
		pair, err := f.auth.Login(ctx, "Alice@Example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, service.TokenTypeBearer, pair.TokenType)

		access, err := f.tokens.ValidateToken(ctx, pair.AccessToken)
		require.NoError(t, err)
		refresh, err := f.tokens.ValidateRefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), access.Subject)
		assert.Equal(t, access.Subject, refresh.Subject)
	})

	t.Run("failures are uniform", func(t *testing.T) {
		_, wrongPassword := f.auth.Login(ctx, "alice@example.com", "wrong-pw")
		_, unknownEmail := f.auth.Login(ctx, "nobody@example.com", "secret1")

		assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, service.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("storage failure is unavailable", func(t *testing.T) {
		users := &mocks.MockUserRepository{}
		users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, errors.New("timeout"))
		svc, err := service.NewAuthService(users, f.hasher, f.tokens, nil)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "alice@example.com", "secret1")
		assert.ErrorIs(t, err, service.ErrUnavailable)
		assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("disabled user cannot log in", func(t *testing.T) {
		hash, err := f.hasher.Hash("secret1")
		require.NoError(t, err)
		disabled, err := domain.NewUser("disabled", "disabled@example.com", hash)
		require.NoError(t, err)
		disabled.Disabled = true
		require.NoError(t, f.store.Users().Create(ctx, disabled))

		_, err = f.auth.Login(ctx, "disabled@example.com", "secret1")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice1", "alice@example.com", "secret1")
	pair, err := f.auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	t.Run("returns new access token and same refresh token", func(t *testing.T) {
		refreshed, err := f.auth.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)
		assert.Equal(t, service.TokenTypeBearer, refreshed.TokenType)

		_, err = f.guard.Authenticate(ctx, refreshed.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		orphan, err := f.tokens.GenerateRefreshToken(ctx, uuid.New())
		require.NoError(t, err)

		_, err = f.auth.Refresh(ctx, orphan)
		assert.ErrorIs(t, err, service.ErrNotFound)
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("missing subject", func(t *testing.T) {
		tokens := &mocks.MockJWTService{Claims: &auth.Claims{}}
		svc, err := service.NewAuthService(f.store.Users(), f.hasher, tokens, nil)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, "any")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.NotErrorIs(t, err, auth.ErrInvalidToken)
	})
}
