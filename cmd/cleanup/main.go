// Command cleanup physically removes soft-deleted rows older than the
// configured retention period. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/goal"
	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/instance"
	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/taskinstance"
	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/tracker"
	"github.com/habitloop/habitloop-backend/internal/app"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, logger, pool, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer pool.Close()

	threshold := time.Now().UTC().AddDate(0, 0, -cfg.Cleanup.HardDeleteRetentionDays)

	// children first so tracker deletion never trips a foreign key
	jobs := []struct {
		name string
		run  func(context.Context, time.Time) (int64, error)
	}{
		{"task_instances", taskinstance.New(pool).HardDeleteOld},
		{"tracker_instances", instance.New(pool).HardDeleteOld},
		{"goals", goal.New(pool).HardDeleteOld},
		{"trackers", tracker.New(pool).HardDeleteOld},
	}

	var total int64
	for _, job := range jobs {
		deleted, err := job.run(ctx, threshold)
		if err != nil {
			logger.Error("hard delete failed",
				slog.String("entity", job.name),
				slog.String("error", err.Error()),
				slog.Time("threshold", threshold),
			)
			os.Exit(1)
		}
		logger.Info("hard delete completed",
			slog.String("entity", job.name),
			slog.Int64("deleted", deleted),
		)
		total += deleted
	}

	logger.Info("cleanup finished",
		slog.Int64("total_deleted", total),
		slog.Time("threshold", threshold),
	)
}
