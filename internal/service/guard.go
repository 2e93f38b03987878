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

// Guard resolves a bearer access token to the user it identifies.
// The user is loaded on every call; identities are never cached.
type Guard struct {
	tokens auth.JWTService
	users  store.UserRepository
	logger *slog.Logger
}

// NewGuard creates a Guard. It returns an error if a dependency is nil.
func NewGuard(tokens auth.JWTService, users store.UserRepository, logger *slog.Logger) (*Guard, error) {
	if tokens == nil {
		return nil, errors.New("tokens cannot be nil")
	}
	if users == nil {
		return nil, errors.New("users cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		tokens: tokens,
		users:  users,
		logger: logger.With("component", "auth_guard"),
	}, nil
}

// Authenticate verifies an access token and loads its subject.
//
// A token that fails verification yields ErrUnauthorized wrapping the
// auth error (auth.ErrInvalidToken or auth.ErrExpiredToken). A verified
// token without a subject yields ErrMissingSubject. A subject that no
// longer exists yields ErrUserNotFound. Disabled users yield ErrInactiveUser.
func (g *Guard) Authenticate(ctx context.Context, token string) (user *domain.User, err error) {
	ctx, span := startSpan(ctx, "Guard.Authenticate", uuid.Nil)
	defer func() { endSpan(span, err) }()

	if token == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, auth.ErrMissingToken)
	}

	claims, err := g.tokens.ValidateToken(ctx, token)
	if err != nil {
		g.logger.DebugContext(ctx, "access token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	userID, err := subjectID(claims)
	if err != nil {
		return nil, err
	}

	user, err = g.users.GetByID(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			g.logger.ErrorContext(ctx, "failed to load token subject", "error", err, "user_id", userID)
		}
		return nil, storageError("load token subject", err, ErrUserNotFound)
	}

	if user.Disabled {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// subjectID extracts the user ID from verified claims. A missing subject is
// ErrMissingSubject; a subject that is not a UUID is treated as an invalid token.
func subjectID(claims *auth.Claims) (uuid.UUID, error) {
	if claims == nil || claims.Subject == "" {
		return uuid.Nil, ErrMissingSubject
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthorized, auth.ErrInvalidToken)
	}
	return id, nil
}
