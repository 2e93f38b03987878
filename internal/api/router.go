package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/todofast-api/internal/api/middleware"
	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/platform/metrics"
	"github.com/phrazzld/todofast-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultAPIPrefix is the mount point of the versioned API.
const DefaultAPIPrefix = "/api/v1"

// RouterDeps holds what NewRouter needs to build the HTTP surface.
type RouterDeps struct {
	Authenticator middleware.Authenticator
	Auth          service.AuthService
	Tasks         service.TaskService
	Categories    service.CategoryService

	// Optional dependencies.
	APIPrefix string
	// TrustProxyHeaders makes X-Forwarded-For, X-Real-IP and True-Client-IP
	// replace the socket address. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool
	RateLimiter       *middleware.RateLimiter
	Metrics           metrics.Recorder
	Gatherer          prometheus.Gatherer
	HealthCheck       func(ctx context.Context) error
	Logger            *slog.Logger
}

// NewRouter builds the application router.
//
// Middleware order: RequestID, RealIP (when proxy headers are trusted), trace, metrics, Recoverer. The
// rate limiter wraps only the unauthenticated auth endpoints.
func NewRouter(deps RouterDeps) (http.Handler, error) {
	if deps.Authenticator == nil {
		return nil, errors.New("authenticator cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.APIPrefix == "" {
		deps.APIPrefix = DefaultAPIPrefix
	}

	authHandler, err := NewAuthHandler(deps.Auth, deps.Metrics, deps.Logger)
	if err != nil {
		return nil, err
	}
	userHandler, err := NewUserHandler(deps.Auth, deps.Metrics, deps.Logger)
	if err != nil {
		return nil, err
	}
	taskHandler, err := NewTaskHandler(deps.Tasks, deps.Logger)
	if err != nil {
		return nil, err
	}
	categoryHandler, err := NewCategoryHandler(deps.Categories, deps.Logger)
	if err != nil {
		return nil, err
	}
	authMiddleware := middleware.NewAuthMiddleware(deps.Authenticator, HandleAPIError)

	limit := func(h http.HandlerFunc) http.Handler { return h }
	if deps.RateLimiter != nil {
		limit = func(h http.HandlerFunc) http.Handler { return deps.RateLimiter.Middleware(h) }
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if deps.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.NewTraceMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route(deps.APIPrefix, func(r chi.Router) {
		// Public
		r.Method(http.MethodPost, "/auth/login", limit(authHandler.Login))
		r.Method(http.MethodPost, "/auth/refresh", limit(authHandler.Refresh))
		r.Method(http.MethodPost, "/users/create", limit(userHandler.Create))

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/test-token", authHandler.TestToken)
			r.Get("/users/me", userHandler.Me)

			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks/create", taskHandler.Create)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			r.Get("/categories", categoryHandler.List)
			r.Post("/categories/create", categoryHandler.Create)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(r.Context()); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
					"service temporarily unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	return r, nil
}
