package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todofast-api/internal/config"
	"github.com/phrazzld/todofast-api/internal/platform/mongo"
	"github.com/phrazzld/todofast-api/internal/platform/postgres"
)

// runMigrations applies command to the configured backend. PostgreSQL runs
// the embedded goose migrations; for MongoDB only "up" is meaningful and
// creates the indexes.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, command, logger)

	case config.DriverMongo:
		if command != postgres.MigrateUp {
			return fmt.Errorf("migration command %q is not supported by the mongo driver", command)
		}
		db, err := mongo.Connect(ctx, cfg.Database.URL, cfg.Database.Name, logger)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(context.Background()) }()
		return db.EnsureIndexes(ctx)

	default:
		return fmt.Errorf("migrations are not supported by the %q driver", cfg.Database.Driver)
	}
}
