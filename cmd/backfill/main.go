// Command backfill rewrites document request rows whose status column still
// holds the legacy bare-string shape into the structured current+progress
// form. Safe to run repeatedly; already-migrated rows are left alone.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"leoniportal/internal/config"
	"leoniportal/internal/observability/logging"
	"leoniportal/internal/store"
	"leoniportal/pkg/db"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "backfill",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st := store.NewGorm(gdb)
	if err := st.Ping(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	n, err := st.DocumentRequests().UpgradeLegacyStatuses(ctx)
	if err != nil {
		logger.Error("backfill failed", "error", err, "migrated", n)
		os.Exit(1)
	}
	logger.Info("backfill complete", "migrated", n)
}
