package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/platform/logger"
	"github.com/phrazzld/todofast-api/internal/service"
)

// errNoUser is reported when a protected handler runs without the auth
// middleware having stored a user.
var errNoUser = errors.New("authenticated user missing from request context")

// getUserFromContext returns the user stored by the auth middleware, writing
// a 401 response when it is absent.
func getUserFromContext(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, errors.Join(service.ErrUnauthorized, errNoUser))
		return nil, false
	}
	return user, true
}

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value is a validation error (422).
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", nil)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "must be a valid UUID", domain.ErrInvalidID)
	}
	return id, nil
}

// handleUserAndPathUUID extracts both the authenticated user and a UUID path
// parameter, writing an error response if either fails.
func handleUserAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (*domain.User, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	user, ok := getUserFromContext(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err)
		return nil, uuid.Nil, false
	}
	return user, id, true
}

// parseTaskFilter reads the status, title, limit and skip query parameters.
// An absent limit becomes domain.DefaultTaskListLimit; an explicit limit=0
// lists every match.
func parseTaskFilter(r *http.Request) (domain.TaskFilter, error) {
	q := r.URL.Query()
	filter := domain.TaskFilter{TitleContains: q.Get("title")}

	if raw := q.Get("status"); raw != "" {
		status, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, domain.NewValidationError("status", "must be a boolean", nil)
		}
		filter.Status = &status
	}

	var err error
	if filter.Limit, err = queryInt(q.Get("limit"), "limit", domain.DefaultTaskListLimit); err != nil {
		return filter, err
	}
	if filter.Skip, err = queryInt(q.Get("skip"), "skip", 0); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryInt(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", nil)
	}
	return n, nil
}
