// Package main implements the entry point for the todofast API server,
// a personal task manager with owner-scoped tasks and categories.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/todofast-api/internal/config"
	"github.com/phrazzld/todofast-api/internal/platform/logger"
	"github.com/phrazzld/todofast-api/internal/platform/otel"
	"github.com/phrazzld/todofast-api/internal/redact"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses flags, loads configuration and either runs a migration command
// or serves HTTP until SIGINT/SIGTERM. It returns the process exit code.
func run(args []string) int {
	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	migrate := flags.String("migrate", "", "run a migration command (up, down, status) and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		return 1
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrate != "" {
		if err := runMigrations(ctx, cfg, *migrate, log); err != nil {
			log.Error("migration failed", slog.String("command", *migrate), slog.String("error", redact.Error(err)))
			return 1
		}
		return 0
	}

	shutdownTracing, err := otel.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Error("failed to set up tracing", slog.String("error", redact.Error(err)))
		return 1
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", slog.String("error", redact.Error(err)))
		}
	}()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", redact.Error(err)))
		return 1
	}
	defer app.cleanup()

	if err := app.Run(ctx); err != nil {
		log.Error("server error", slog.String("error", redact.Error(err)))
		return 1
	}
	return 0
}
