package instance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/taskinstance"
	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/internal/period"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type trackerRepo interface {
	GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
}

type templateRepo interface {
	ListActiveByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error)
}

type instanceRepo interface {
	GetByID(ctx context.Context, instanceID uuid.UUID) (*domain.TrackerInstance, error)
	GetByTrackingDate(ctx context.Context, trackerID uuid.UUID, trackingDate time.Time) (*domain.TrackerInstance, error)
	ListBetween(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]domain.TrackerInstance, error)
	ListTrackingDatesBetween(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]time.Time, error)
	Create(ctx context.Context, inst *domain.TrackerInstance) (*domain.TrackerInstance, error)
}

type taskRepo interface {
	GetByID(ctx context.Context, taskID uuid.UUID) (*taskinstance.TaskWithTracker, error)
	ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]domain.TaskInstance, error)
	CreateBatch(ctx context.Context, tasks []domain.TaskInstance) error
	Update(ctx context.Context, t *domain.TaskInstance) error
}

type goalRepo interface {
	ListGoalIDsByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error)
}

type prefsRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service materializes tracker instances on demand and records task
// completion.
type Service struct {
	trackers  trackerRepo
	templates templateRepo
	instances instanceRepo
	tasks     taskRepo
	goals     goalRepo
	prefs     prefsRepo
	tx        txManager
	log       *slog.Logger

	defaultWeekStart     int
	maxGenerateRangeDays int

	// now is swappable in tests
	now func() time.Time
}

// NewService creates a new instance service.
func NewService(
	log *slog.Logger,
	trackers trackerRepo,
	templates templateRepo,
	instances instanceRepo,
	tasks taskRepo,
	goals goalRepo,
	prefs prefsRepo,
	tx txManager,
	defaultWeekStart int,
	maxGenerateRangeDays int,
) *Service {
	return &Service{
		trackers:             trackers,
		templates:            templates,
		instances:            instances,
		tasks:                tasks,
		goals:                goals,
		prefs:                prefs,
		tx:                   tx,
		log:                  log.With("service", "instance"),
		defaultWeekStart:     defaultWeekStart,
		maxGenerateRangeDays: maxGenerateRangeDays,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

// weekStartFor resolves the user's configured week start, falling back to
// the engine default when no preferences exist.
func (s *Service) weekStartFor(ctx context.Context, userID uuid.UUID) int {
	p, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return s.defaultWeekStart
	}
	return p.WeekStart
}

// timezoneFor resolves the user's timezone, falling back to UTC.
func (s *Service) timezoneFor(ctx context.Context, userID uuid.UUID) *time.Location {
	p, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return time.UTC
	}
	return period.ParseTimezone(p.Timezone)
}
