package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/service/auth"
	"github.com/phrazzld/todofast-api/internal/store"
)

// TokenTypeBearer is the token_type reported with every issued token pair.
const TokenTypeBearer = "bearer"

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService provides registration, login and token refresh.
type AuthService interface {
	// Register creates a user. Returns ErrEmailTaken or ErrUsernameTaken
	// (both ErrConflict) when the identity is already registered.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login verifies credentials and issues an access and refresh token.
	// Every failure cause yields ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*TokenPair, error)

	// Refresh exchanges a valid refresh token for a new access token. The
	// refresh token itself is returned unchanged; it is not rotated.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authServiceImpl struct {
	users  store.UserRepository
	hasher auth.PasswordHasher
	tokens auth.JWTService
	logger *slog.Logger
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates an AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	users store.UserRepository,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil {
		return nil, errors.New("users cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("hasher cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("tokens cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("component", "auth_service"),
	}, nil
}

// Register implements AuthService.
func (s *authServiceImpl) Register(ctx context.Context, in RegisterInput) (user *domain.User, err error) {
	ctx, span := startSpan(ctx, "AuthService.Register", uuid.Nil)
	defer func() { endSpan(span, err) }()

	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, invalidInput(err)
	}
	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, invalidInput(err)
	}

	// Fast path for the friendly error. The unique constraint checked by
	// Create below is what actually decides.
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		s.logger.DebugContext(ctx, "registration rejected: email already registered")
		return nil, ErrEmailTaken
	case err != nil && !store.IsNotFoundError(err):
		s.logger.ErrorContext(ctx, "failed to check for existing user", "error", err)
		return nil, storageError("check existing user", err, nil)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, invalidInput(domain.NewValidationError("password", "cannot be empty", err))
		}
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, invalidInput(domain.NewValidationError("password", "must be at most 72 bytes", err))
		}
		s.logger.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, fmt.Errorf("hash password: %w: %w", ErrUnavailable, err)
	}

	user, err = domain.NewUser(in.Username, email, hash)
	if err != nil {
		return nil, invalidInput(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.DebugContext(ctx, "registration rejected by unique constraint", "error", err)
		} else {
			s.logger.ErrorContext(ctx, "failed to save user", "error", err)
		}
		return nil, storageError("create user", err, nil)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login implements AuthService.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (pair *TokenPair, err error) {
	ctx, span := startSpan(ctx, "AuthService.Login", uuid.Nil)
	defer func() { endSpan(span, err) }()

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			s.hasher.VerifyDummy(password)
			s.logger.DebugContext(ctx, "login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "failed to look up user for login", "error", err)
		return nil, storageError("find user", err, nil)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		s.logger.DebugContext(ctx, "login failed: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if user.Disabled {
		s.logger.DebugContext(ctx, "login failed: user disabled", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w: %w", ErrUnavailable, err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w: %w", ErrUnavailable, err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: TokenTypeBearer}, nil
}

// Refresh implements AuthService.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	ctx, span := startSpan(ctx, "AuthService.Refresh", uuid.Nil)
	defer func() { endSpan(span, err) }()

	if refreshToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, auth.ErrInvalidToken)
	}

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		s.logger.DebugContext(ctx, "refresh token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	userID, err := subjectID(claims)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.ErrorContext(ctx, "failed to load refresh subject", "error", err, "user_id", userID)
		}
		return nil, storageError("load refresh subject", err, ErrUserNotFound)
	}
	if user.Disabled {
		return nil, ErrInactiveUser
	}

	access, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w: %w", ErrUnavailable, err)
	}

	s.logger.DebugContext(ctx, "access token refreshed", "user_id", user.ID)
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, TokenType: TokenTypeBearer}, nil
}
