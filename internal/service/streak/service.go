package streak

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type trackerRepo interface {
	GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
}

type instanceRepo interface {
	CompletionHistory(ctx context.Context, trackerID uuid.UUID, before time.Time, limit int) ([]domain.InstanceCompletion, error)
}

type prefsRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
}

type eventSink interface {
	Dispatch(event domain.Event)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// milestones are the current-streak lengths that emit a notification event.
var milestones = map[int]bool{7: true, 30: true, 100: true, 365: true}

// Service computes completion streaks over materialized instance history.
type Service struct {
	trackers  trackerRepo
	instances instanceRepo
	prefs     prefsRepo
	events    eventSink
	log       *slog.Logger

	defaultThreshold int
	defaultWeekStart int
	historyLimit     int

	// now is swappable in tests
	now func() time.Time
}

// NewService creates a new streak service. events may be nil when no
// notification sink is wired.
func NewService(
	log *slog.Logger,
	trackers trackerRepo,
	instances instanceRepo,
	prefs prefsRepo,
	events eventSink,
	defaultThreshold int,
	defaultWeekStart int,
	historyLimit int,
) *Service {
	return &Service{
		trackers:         trackers,
		instances:        instances,
		prefs:            prefs,
		events:           events,
		log:              log.With("service", "streak"),
		defaultThreshold: defaultThreshold,
		defaultWeekStart: defaultWeekStart,
		historyLimit:     historyLimit,
		now:              func() time.Time { return time.Now().UTC() },
	}
}
