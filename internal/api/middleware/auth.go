package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/domain"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// ErrorHandler writes the response for a failed authentication.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// AuthMiddleware provides bearer authentication for routes.
type AuthMiddleware struct {
	authenticator Authenticator
	onError       ErrorHandler
}

// NewAuthMiddleware creates a new AuthMiddleware. onError receives every
// error returned by the authenticator, including the one for a missing token.
func NewAuthMiddleware(authenticator Authenticator, onError ErrorHandler) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		onError:       onError,
	}
}

// Authenticate extracts the bearer token from the Authorization header,
// resolves it through the Authenticator and stores the user in the request
// context. A missing header or a non-bearer scheme is passed on as an empty
// token so the Authenticator decides how to reject it.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticator.Authenticate(r.Context(), BearerToken(r))
		if err != nil {
			m.onError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively. It returns "" when the
// header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
