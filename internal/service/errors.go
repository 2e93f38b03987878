package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
)

// Error taxonomy. Callers classify service errors with errors.Is against
// these sentinels.
var (
	// ErrInvalidInput indicates a request value is malformed or out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a uniqueness rule would be violated.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates the caller's identity could not be established.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrNotFound indicates the entity is absent or belongs to another user.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is the single, uniform login failure.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnavailable indicates a storage or downstream failure.
	ErrUnavailable = errors.New("service unavailable")
)

// Error is a taxonomy error with a message that is safe to show to clients.
type Error struct {
	// Kind is one of the taxonomy sentinels.
	Kind error
	// Message is client-safe text.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns Kind so errors.Is matches the taxonomy sentinel.
func (e *Error) Unwrap() error { return e.Kind }

// Entity-specific errors.
var (
	ErrUserNotFound     error = &Error{Kind: ErrNotFound, Message: "user not found"}
	ErrTaskNotFound     error = &Error{Kind: ErrNotFound, Message: "task not found"}
	ErrCategoryNotFound error = &Error{Kind: ErrNotFound, Message: "category not found or not yours"}
	ErrEmailTaken       error = &Error{Kind: ErrConflict, Message: "the user with this email already exists"}
	ErrUsernameTaken    error = &Error{Kind: ErrConflict, Message: "the user with this username already exists"}
	ErrCategoryExists   error = &Error{Kind: ErrConflict, Message: "category with this name already exists"}
	ErrInactiveUser     error = &Error{Kind: ErrUnauthorized, Message: "inactive user"}
	ErrMissingSubject   error = &Error{Kind: ErrUnauthorized, Message: "could not validate credentials"}
)

// invalidInput classifies a domain validation error as ErrInvalidInput while
// keeping the field detail reachable through errors.As.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// storageError classifies an error returned by a repository. notFound is the
// error to report when the repository says the entity does not exist.
// Validation errors become ErrInvalidInput; anything unrecognised becomes
// ErrUnavailable.
func storageError(op string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && store.IsNotFoundError(err):
		return notFound
	case errors.Is(err, domain.ErrValidation):
		return invalidInput(err)
	case errors.Is(err, store.ErrEmailExists):
		return ErrEmailTaken
	case errors.Is(err, store.ErrUsernameExists):
		return ErrUsernameTaken
	case errors.Is(err, store.ErrCategoryExists):
		return ErrCategoryExists
	case store.IsDuplicateError(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
}
