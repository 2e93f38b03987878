package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/service"
	"github.com/phrazzld/todofast-api/internal/service/auth"
	"github.com/phrazzld/todofast-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. Token verification failures are checked before
// the generic ErrUnauthorized they are wrapped in.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Request shape
	case errors.Is(err, shared.ErrMalformedBody):
		return http.StatusBadRequest
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusUnprocessableEntity

	// Authentication
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest

	// Entities
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. Raw error text
// from storage or libraries is never returned.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "an unexpected error occurred"
	}

	var (
		svcErr *service.Error
		verrs  validator.ValidationErrors
		field  *domain.ValidationError
	)

	switch {
	case errors.As(err, &svcErr):
		return svcErr.Message
	case errors.Is(err, shared.ErrMalformedBody):
		return "malformed request body"
	case errors.As(err, &verrs):
		return SanitizeValidationError(verrs)
	case errors.As(err, &field):
		return field.Error()
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, auth.ErrMissingToken):
		return "not authenticated"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrUnauthorized):
		return "could not validate credentials"
	case errors.Is(err, service.ErrInvalidCredentials):
		return service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return "not found"
	case errors.Is(err, service.ErrConflict):
		return "resource already exists"
	case errors.Is(err, service.ErrUnavailable):
		return "service temporarily unavailable"
	default:
		return "an unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err and logs the redacted
// cause. 401 and 403 responses carry a WWW-Authenticate challenge.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithHeader("WWW-Authenticate", "Bearer"))
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field, without exposing Go type names.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("invalid %s: %s", fe.Field(), getValidationTagMessage(fe))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid UUID"
	default:
		return "validation failed"
	}
}
