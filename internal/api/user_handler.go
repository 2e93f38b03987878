package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/platform/metrics"
	"github.com/phrazzld/todofast-api/internal/service"
)

// UserHandler handles registration and profile requests.
type UserHandler struct {
	auth    service.AuthService
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth service.AuthService, recorder metrics.Recorder, logger *slog.Logger) (*UserHandler, error) {
	if auth == nil {
		return nil, errors.New("auth service cannot be nil")
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		auth:    auth,
		metrics: recorder,
		logger:  logger.With(slog.String("component", "user_handler")),
	}, nil
}

// Create handles POST /users/create.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.RecordAuthOutcome(metrics.FlowRegister, metrics.OutcomeFailure)
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.RecordAuthOutcome(metrics.FlowRegister, metrics.OutcomeSuccess)
	h.logger.InfoContext(r.Context(), "user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := getUserFromContext(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}
