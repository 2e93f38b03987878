// Package service contains the application use cases: registration, login and
// token refresh, the authorization guard that turns a bearer token into a
// user, and owner-scoped task and category operations.
//
// Services depend on the repository interfaces in internal/store and never on
// a particular backend. Every error they return matches exactly one of the
// taxonomy sentinels in errors.go (ErrInvalidInput, ErrConflict,
// ErrUnauthorized, ErrNotFound, ErrInvalidCredentials, ErrUnavailable), which
// the API layer maps to HTTP status codes.
package service
