package goal

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

type goalRepo interface {
	GetByID(ctx context.Context, ownerID, goalID uuid.UUID) (*domain.Goal, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error)
	Create(ctx context.Context, g *domain.Goal) (*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) (*domain.Goal, error)
	UpdateProgress(ctx context.Context, goalID uuid.UUID, currentValue float64, status domain.GoalStatus) (*domain.Goal, error)
	SoftDelete(ctx context.Context, ownerID, goalID uuid.UUID, now time.Time) error
	Attach(ctx context.Context, goalID, templateID uuid.UUID, weight float64) error
	Detach(ctx context.Context, goalID, templateID uuid.UUID) error
	ListActiveMappings(ctx context.Context, goalID uuid.UUID) ([]domain.GoalTaskMapping, error)
}

type templateRepo interface {
	GetByID(ctx context.Context, templateID uuid.UUID) (*domain.TaskTemplate, error)
}

type trackerRepo interface {
	GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
}

type taskRepo interface {
	CountDoneInWindow(ctx context.Context, templateID uuid.UUID, from, to time.Time) (int, error)
}

type eventSink interface {
	Dispatch(event domain.Event)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements goal lifecycle and progress recomputation.
type Service struct {
	goals     goalRepo
	templates templateRepo
	trackers  trackerRepo
	tasks     taskRepo
	events    eventSink
	tx        txManager
	log       *slog.Logger

	// now is swappable in tests
	now func() time.Time
}

// NewService creates a new goal service. events may be nil when no
// notification sink is wired.
func NewService(
	log *slog.Logger,
	goals goalRepo,
	templates templateRepo,
	trackers trackerRepo,
	tasks taskRepo,
	events eventSink,
	tx txManager,
) *Service {
	return &Service{
		goals:     goals,
		templates: templates,
		trackers:  trackers,
		tasks:     tasks,
		events:    events,
		tx:        tx,
		log:       log.With("service", "goal"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}
