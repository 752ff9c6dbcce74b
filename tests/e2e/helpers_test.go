//go:build e2e

package e2e_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habitloop/habitloop-backend/internal/adapter/postgres"
	goalrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/goal"
	instancerepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/instance"
	prefsrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/prefs"
	sharelinkrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/sharelink"
	taskrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/taskinstance"
	templaterepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/template"
	trackerrepo "github.com/habitloop/habitloop-backend/internal/adapter/postgres/tracker"
	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/testhelper"
	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/internal/notifier"
	"github.com/habitloop/habitloop-backend/internal/service/goal"
	"github.com/habitloop/habitloop-backend/internal/service/instance"
	"github.com/habitloop/habitloop-backend/internal/service/streak"
	syncsvc "github.com/habitloop/habitloop-backend/internal/service/sync"
	"github.com/habitloop/habitloop-backend/internal/service/tracker"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// Engine defaults mirroring config.EngineConfig / config.SyncConfig. The
// e2e suite wires services directly instead of reading the environment.
const (
	testStreakThreshold   = 80
	testWeekStart         = 0
	testMaxRangeDays      = 730
	testHistoryLimit      = 1000
	testMaxSyncBatch      = 500
	testClockSkewTol      = 2 * time.Second
	testNotifierQueueSize = 64
)

// testEnv holds the fully wired engine over a real database. Every test
// gets its own pool and notifier; the container itself is shared.
type testEnv struct {
	Pool *pgxpool.Pool

	Trackers  *tracker.Service
	Instances *instance.Service
	Streaks   *streak.Service
	Goals     *goal.Service
	Sync      *syncsvc.Service

	// Events receives everything the engine dispatched through the
	// notifier, in dispatch order.
	Events <-chan domain.Event
}

// setupTestEnv starts (or reuses) the shared PostgreSQL container, applies
// migrations and wires all services against it.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	trackers := trackerrepo.New(pool)
	templates := templaterepo.New(pool)
	instances := instancerepo.New(pool)
	tasks := taskrepo.New(pool)
	goals := goalrepo.New(pool)
	links := sharelinkrepo.New(pool)
	prefs := prefsrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	events := make(chan domain.Event, testNotifierQueueSize)
	n := notifier.New(logger, testNotifierQueueSize, notifier.HandlerFunc(
		func(_ context.Context, event domain.Event) error {
			events <- event
			return nil
		},
	))
	t.Cleanup(func() { _ = n.Close() })

	goalsSvc := goal.NewService(
		logger, goals, templates, trackers, tasks, n, tx,
	)

	return &testEnv{
		Pool: pool,
		Trackers: tracker.NewService(
			logger, trackers, templates, instances, tasks, links, prefs, tx,
			testStreakThreshold, testWeekStart,
		),
		Instances: instance.NewService(
			logger, trackers, templates, instances, tasks, goals, prefs, tx,
			testWeekStart, testMaxRangeDays,
		),
		Streaks: streak.NewService(
			logger, trackers, instances, prefs, n,
			testStreakThreshold, testWeekStart, testHistoryLimit,
		),
		Goals: goalsSvc,
		Sync: syncsvc.NewService(
			logger, trackers, tasks, goals, goalsSvc, tx,
			testMaxSyncBatch, testClockSkewTol,
		),
		Events: events,
	}
}

// userCtx returns a context authenticated as the given user, carrying a
// device ID the way the sync transport would.
func userCtx(u domain.User) context.Context {
	ctx := ctxutil.WithUserID(context.Background(), u.ID)
	return ctxutil.WithDeviceID(ctx, "e2e-device")
}

// waitEvent blocks until the notifier delivers the next event or the
// timeout fires.
func waitEvent(t *testing.T, events <-chan domain.Event) domain.Event {
	t.Helper()

	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return domain.Event{}
	}
}

// syncReconcileInput builds one reconcile round trip.
func syncReconcileInput(since time.Time, changes ...domain.ClientChange) syncsvc.ReconcileInput {
	return syncsvc.ReconcileInput{Since: since, Changes: changes}
}

// dateUTC builds a midnight-UTC calendar date.
func dateUTC(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
