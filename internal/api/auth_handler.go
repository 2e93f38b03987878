package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/platform/metrics"
	"github.com/phrazzld/todofast-api/internal/service"
)

// AuthHandler handles login, token refresh and token inspection.
type AuthHandler struct {
	auth    service.AuthService
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. A nil recorder disables metrics.
func NewAuthHandler(auth service.AuthService, recorder metrics.Recorder, logger *slog.Logger) (*AuthHandler, error) {
	if auth == nil {
		return nil, errors.New("auth service cannot be nil")
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:    auth,
		metrics: recorder,
		logger:  logger.With(slog.String("component", "auth_handler")),
	}, nil
}

// Login handles POST /auth/login. It accepts the OAuth2 password form
// (application/x-www-form-urlencoded) and, for convenience, the same fields
// as JSON.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(w, r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.RecordAuthOutcome(metrics.FlowLogin, metrics.OutcomeFailure)
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.RecordAuthOutcome(metrics.FlowLogin, metrics.OutcomeSuccess)
	shared.RespondWithJSON(w, r, http.StatusOK, tokenPairToResponse(pair))
}

// Refresh handles POST /auth/refresh. The refresh token is echoed back
// unchanged alongside a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.metrics.RecordAuthOutcome(metrics.FlowRefresh, metrics.OutcomeFailure)
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.RecordAuthOutcome(metrics.FlowRefresh, metrics.OutcomeSuccess)
	shared.RespondWithJSON(w, r, http.StatusOK, tokenPairToResponse(pair))
}

// TestToken handles POST /auth/test-token and returns the token's user.
func (h *AuthHandler) TestToken(w http.ResponseWriter, r *http.Request) {
	user, ok := getUserFromContext(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

func decodeLoginRequest(w http.ResponseWriter, r *http.Request) (LoginRequest, error) {
	var req LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := shared.DecodeJSON(w, r, &req)
		return req, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, shared.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: %w", shared.ErrMalformedBody, err)
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return req, nil
}
