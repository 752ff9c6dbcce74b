// Command backfill materializes missing tracker instances over a date
// range. By default periods already fully in the past get their tasks
// created as MISSED, so a freshly imported account shows honest history
// instead of a wall of open TODOs; pass --mark-missed=false to keep them
// open.
//
// Usage:
//
//	backfill --owner=<uuid> --from=2025-01-01 --to=2025-03-01 [--tracker=<uuid>]
//
// Without --tracker every active tracker of the owner is backfilled.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/adapter/postgres"
	goalrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/goal"
	instancerepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/instance"
	prefsrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/prefs"
	taskrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/taskinstance"
	templaterepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/template"
	trackerrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/tracker"
	"github.com/habitloop/habitloop-backend/internal/app"
	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/internal/service/instance"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

func main() {
	ownerFlag := flag.String("owner", "", "owner user ID (required)")
	trackerFlag := flag.String("tracker", "", "tracker ID (default: all active trackers of the owner)")
	fromFlag := flag.String("from", "", "range start, YYYY-MM-DD (required)")
	toFlag := flag.String("to", "", "range end, YYYY-MM-DD (required)")
	markMissed := flag.Bool("mark-missed", true, "initialize tasks of past periods as MISSED instead of TODO")
	flag.Parse()

	if *ownerFlag == "" || *fromFlag == "" || *toFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: backfill --owner=<uuid> --from=YYYY-MM-DD --to=YYYY-MM-DD [--tracker=<uuid>]")
		os.Exit(1)
	}

	ownerID, err := uuid.Parse(*ownerFlag)
	if err != nil {
		log.Fatalf("parse --owner: %v", err)
	}
	from, err := time.Parse(time.DateOnly, *fromFlag)
	if err != nil {
		log.Fatalf("parse --from: %v", err)
	}
	to, err := time.Parse(time.DateOnly, *toFlag)
	if err != nil {
		log.Fatalf("parse --to: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, logger, pool, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer pool.Close()

	trackers := trackerrepo.New(pool)
	svc := instance.NewService(
		logger,
		trackers,
		templaterepo.New(pool),
		instancerepo.New(pool),
		taskrepo.New(pool),
		goalrepo.New(pool),
		prefsrepo.New(pool),
		postgres.NewTxManager(pool),
		cfg.Engine.DefaultWeekStart,
		cfg.Engine.MaxGenerateRangeDays,
	)

	ctx = ctxutil.WithUserID(ctx, ownerID)

	var targets []domain.Tracker
	if *trackerFlag != "" {
		trackerID, err := uuid.Parse(*trackerFlag)
		if err != nil {
			log.Fatalf("parse --tracker: %v", err)
		}
		tr, err := trackers.GetByID(ctx, ownerID, trackerID)
		if err != nil {
			logger.Error("get tracker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		targets = []domain.Tracker{*tr}
	} else {
		all, err := trackers.ListByOwner(ctx, ownerID)
		if err != nil {
			logger.Error("list trackers", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, tr := range all {
			if tr.IsActive() {
				targets = append(targets, tr)
			}
		}
	}

	var created, skipped int
	for _, tr := range targets {
		result, err := svc.GenerateRange(ctx, instance.GenerateRangeInput{
			TrackerID:         tr.ID,
			From:              from,
			To:                to,
			MarkMissedForPast: *markMissed,
		})
		if err != nil {
			logger.Error("backfill failed",
				slog.String("tracker_id", tr.ID.String()),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("tracker backfilled",
			slog.String("tracker_id", tr.ID.String()),
			slog.Int("created", result.Created),
			slog.Int("skipped", result.Skipped),
		)
		created += result.Created
		skipped += result.Skipped
	}

	fmt.Printf("Backfilled %d tracker(s): %d instances created, %d already present.\n",
		len(targets), created, skipped)
}
