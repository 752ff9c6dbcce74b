package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/taskinstance"
	"github.com/habitloop/habitloop-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type trackerRepo interface {
	GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
	ApplyFields(ctx context.Context, ownerID, trackerID uuid.UUID, fields map[string]any, updatedAt time.Time) error
	ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Tracker, error)
}

type taskRepo interface {
	GetByID(ctx context.Context, taskID uuid.UUID) (*taskinstance.TaskWithTracker, error)
	ApplyFields(ctx context.Context, taskID uuid.UUID, fields map[string]any, updatedAt time.Time) error
	ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]taskinstance.TaskWithTracker, error)
}

type goalRepo interface {
	GetByID(ctx context.Context, ownerID, goalID uuid.UUID) (*domain.Goal, error)
	ApplyFields(ctx context.Context, ownerID, goalID uuid.UUID, fields map[string]any, updatedAt time.Time) error
	ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Goal, error)
	ListGoalIDsByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error)
}

// goalRecomputer refreshes goal progress after synced task edits, the same
// primitive the live toggle path feeds.
type goalRecomputer interface {
	RecomputeMany(ctx context.Context, goalIDs []uuid.UUID) ([]domain.Goal, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// writable lists the fields a device may set per entity type. Everything
// else is server-computed and silently rejected as a conflict.
var writable = map[domain.SyncEntityType]map[string]bool{
	domain.SyncEntityTracker: {
		"name":   true,
		"status": true,
	},
	domain.SyncEntityTaskInstance: {
		"status": true,
		"notes":  true,
	},
	domain.SyncEntityGoal: {
		"title":        true,
		"target_value": true,
		"target_date":  true,
		"priority":     true,
	},
}

// Service reconciles offline client mutations against server state using
// field-level last-writer-wins.
type Service struct {
	trackers   trackerRepo
	tasks      taskRepo
	goals      goalRepo
	recomputer goalRecomputer
	tx         txManager
	log        *slog.Logger

	maxBatchSize int
	clockSkewTol time.Duration

	// now is swappable in tests
	now func() time.Time
}

// NewService creates a new sync service.
func NewService(
	log *slog.Logger,
	trackers trackerRepo,
	tasks taskRepo,
	goals goalRepo,
	recomputer goalRecomputer,
	tx txManager,
	maxBatchSize int,
	clockSkewTolerance time.Duration,
) *Service {
	return &Service{
		trackers:     trackers,
		tasks:        tasks,
		goals:        goals,
		recomputer:   recomputer,
		tx:           tx,
		log:          log.With("service", "sync"),
		maxBatchSize: maxBatchSize,
		clockSkewTol: clockSkewTolerance,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
