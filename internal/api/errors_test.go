package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/service"
	"github.com/phrazzld/todofast-api/internal/service/auth"
	"github.com/phrazzld/todofast-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"malformed body", fmt.Errorf("%w: EOF", shared.ErrMalformedBody), http.StatusBadRequest},
		{"domain validation", domain.NewValidationError("title", "too short", nil), http.StatusUnprocessableEntity},
		{"invalid input", service.ErrInvalidInput, http.StatusUnprocessableEntity},
		{"missing token", fmt.Errorf("%w: %w", service.ErrUnauthorized, auth.ErrMissingToken), http.StatusUnauthorized},
		{"invalid token", fmt.Errorf("%w: %w", service.ErrUnauthorized, auth.ErrInvalidToken), http.StatusForbidden},
		{"expired token", fmt.Errorf("%w: %w", service.ErrUnauthorized, auth.ErrExpiredToken), http.StatusForbidden},
		{"missing subject", service.ErrMissingSubject, http.StatusUnauthorized},
		{"inactive user", service.ErrInactiveUser, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"store not found", store.ErrCategoryNotFound, http.StatusNotFound},
		{"email taken", service.ErrEmailTaken, http.StatusBadRequest},
		{"category exists", service.ErrCategoryExists, http.StatusBadRequest},
		{"unavailable", fmt.Errorf("list tasks: %w: %w", service.ErrUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "an unexpected error occurred"},
		{"service error message", service.ErrEmailTaken, "the user with this email already exists"},
		{"category not yours", service.ErrCategoryNotFound, "category not found or not yours"},
		{"malformed body", shared.ErrMalformedBody, "malformed request body"},
		{
			"field validation",
			fmt.Errorf("%w: %w", service.ErrInvalidInput, domain.NewValidationError("limit", "cannot be negative", nil)),
			"invalid limit: cannot be negative",
		},
		{"missing token", auth.ErrMissingToken, "not authenticated"},
		{"invalid token", fmt.Errorf("%w: %w", service.ErrUnauthorized, auth.ErrInvalidToken), "could not validate credentials"},
		{"invalid credentials", service.ErrInvalidCredentials, "incorrect email or password"},
		{"bare conflict", fmt.Errorf("create: %w", service.ErrConflict), "resource already exists"},
		{
			"unavailable hides cause",
			fmt.Errorf("get user: %w: %w", service.ErrUnavailable, errors.New("postgres://admin:pw@db failed")),
			"service temporarily unavailable",
		},
		{"unknown hides cause", errors.New("secret internals"), "an unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&RegisterRequest{Email: "not-an-email", Username: "valid-name", Password: "secret"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	assert.Equal(t, "invalid email: value is not a valid email address", SanitizeValidationError(err))
	assert.Equal(t, "validation error", SanitizeValidationError(errors.New("other")))

	err = shared.ValidateRequest(&RegisterRequest{Email: "a@b.co", Username: "abc", Password: "secret"})
	assert.Equal(t, "invalid username: must be at least 5 characters", SanitizeValidationError(err))
}

func TestHandleAPIError_AuthChallenge(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantChallenge bool
	}{
		{"401", fmt.Errorf("%w: %w", service.ErrUnauthorized, auth.ErrMissingToken), http.StatusUnauthorized, true},
		{"403", fmt.Errorf("%w: %w", service.ErrUnauthorized, auth.ErrInvalidToken), http.StatusForbidden, true},
		{"404", service.ErrTaskNotFound, http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantChallenge {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
