package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todofast-api/internal/api"
	"github.com/phrazzld/todofast-api/internal/api/middleware"
	"github.com/phrazzld/todofast-api/internal/config"
	"github.com/phrazzld/todofast-api/internal/platform/metrics"
	"github.com/phrazzld/todofast-api/internal/platform/mongo"
	"github.com/phrazzld/todofast-api/internal/platform/postgres"
	"github.com/phrazzld/todofast-api/internal/redact"
	"github.com/phrazzld/todofast-api/internal/service"
	"github.com/phrazzld/todofast-api/internal/service/auth"
	"github.com/phrazzld/todofast-api/internal/store"
	"github.com/phrazzld/todofast-api/internal/store/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// rateLimiterCleanupInterval is how often idle per-client limiters are swept.
const rateLimiterCleanupInterval = 5 * time.Minute

// stores is one storage backend's repositories plus its lifecycle hooks.
type stores struct {
	users      store.UserRepository
	tasks      store.TaskRepository
	categories store.CategoryRepository
	ping       func(ctx context.Context) error
	close      func(ctx context.Context) error
}

// application holds the shared dependencies of the server and releases them
// on cleanup.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	stores      *stores
	rateLimiter *middleware.RateLimiter
	router      http.Handler
}

// newApplication wires storage, services and the HTTP router from cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	st, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app := &application{config: cfg, logger: logger, stores: st}

	if err := app.buildRouter(); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) buildRouter() error {
	cfg, logger := app.config, app.logger

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes))

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	guard, err := service.NewGuard(tokens, app.stores.users, logger)
	if err != nil {
		return fmt.Errorf("failed to create authorization guard: %w", err)
	}
	authService, err := service.NewAuthService(app.stores.users, hasher, tokens, logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	taskService, err := service.NewTaskService(app.stores.tasks, app.stores.categories, logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	categoryService, err := service.NewCategoryService(app.stores.categories, logger)
	if err != nil {
		return fmt.Errorf("failed to create category service: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	app.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimit.AuthRequestsPerMinute,
		Burst:             cfg.RateLimit.AuthBurst,
		CleanupInterval:   rateLimiterCleanupInterval,
	}, collector)

	app.router, err = api.NewRouter(api.RouterDeps{
		Authenticator:     guard,
		Auth:              authService,
		Tasks:             taskService,
		Categories:        categoryService,
		APIPrefix:         cfg.Server.APIPrefix,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
		RateLimiter:       app.rateLimiter,
		Metrics:           collector,
		Gatherer:          registry,
		HealthCheck:       app.stores.ping,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	return nil
}

// openStores connects the configured storage backend.
func openStores(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		users, err := postgres.NewUserStore(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		tasks, err := postgres.NewTaskStore(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		categories, err := postgres.NewCategoryStore(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("connected to postgres")
		return &stores{
			users:      users,
			tasks:      tasks,
			categories: categories,
			ping:       db.PingContext,
			close:      func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		db, err := mongo.Connect(ctx, cfg.URL, cfg.Name, logger)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			_ = db.Close(context.Background())
			return nil, err
		}
		logger.Info("connected to mongo", slog.String("database", cfg.Name))
		return &stores{
			users:      db.Users(),
			tasks:      db.Tasks(),
			categories: db.Categories(),
			ping:       db.Ping,
			close:      db.Close,
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		mem := memory.New()
		return &stores{
			users:      mem.Users(),
			tasks:      mem.Tasks(),
			categories: mem.Categories(),
			ping:       func(context.Context) error { return nil },
			close:      func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the rate limiter and the storage backend. It is safe to
// call more than once.
func (app *application) cleanup() {
	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}
	if app.stores != nil && app.stores.close != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout())
		defer cancel()
		if err := app.stores.close(ctx); err != nil {
			app.logger.Error("error closing storage", slog.String("error", redact.Error(err)))
		}
		app.stores.close = nil
	}
	app.logger.Info("application shutdown completed")
}
