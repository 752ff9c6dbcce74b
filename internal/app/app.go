package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/habitloop/habitloop-backend/internal/adapter/postgres"
	"github.com/habitloop/habitloop-backend/internal/config"
)

// Bootstrap loads configuration, initializes the default logger, and
// opens the database pool. It is the shared entry point of the
// maintenance CLIs; the engine itself is a library and has no long
// running process of its own.
func Bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, pool, nil
}
