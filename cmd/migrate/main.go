package main

// Apply the rate_windows schema before starting API instances with QUOTA_STORE=postgres:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"resume-pipeline/internal/bootstrap"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
	"resume-pipeline/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, bootstrap.PoolOptions(cfg).ForMigrations())
	if err != nil {
		telemetry.Error("migrate.connect.failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err})
		os.Exit(1)
	}
	version, err := db.SchemaVersion(ctx, sqlDB)
	if err != nil {
		telemetry.Warn("migrate.version.unknown", map[string]any{"err": err})
	}
	telemetry.Info("migrate.complete", map[string]any{"version": version})
}
