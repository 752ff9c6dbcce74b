package tracker

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
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Tracker, error)
	Create(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error)
	Update(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error)
	SoftDelete(ctx context.Context, ownerID, trackerID uuid.UUID, now time.Time) error
	Restore(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
}

type templateRepo interface {
	GetByID(ctx context.Context, templateID uuid.UUID) (*domain.TaskTemplate, error)
	ListActiveByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error)
	Create(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error)
	Update(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error)
	SoftDelete(ctx context.Context, templateID uuid.UUID, now time.Time) error
	SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error)
}

type instanceRepo interface {
	SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error)
}

type taskRepo interface {
	SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error)
}

type linkRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.ShareLink, error)
	ListByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.ShareLink, error)
	Create(ctx context.Context, l *domain.ShareLink) (*domain.ShareLink, error)
	Consume(ctx context.Context, code string, now time.Time) (*domain.ShareLink, error)
	Delete(ctx context.Context, linkID uuid.UUID) error
}

type prefsRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
	Upsert(ctx context.Context, p *domain.UserPreferences) (*domain.UserPreferences, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements tracker, template, share link and preference logic.
type Service struct {
	trackers  trackerRepo
	templates templateRepo
	instances instanceRepo
	tasks     taskRepo
	links     linkRepo
	prefs     prefsRepo
	tx        txManager
	log       *slog.Logger

	defaultThreshold int
	defaultWeekStart int
}

// NewService creates a new tracker service.
func NewService(
	log *slog.Logger,
	trackers trackerRepo,
	templates templateRepo,
	instances instanceRepo,
	tasks taskRepo,
	links linkRepo,
	prefs prefsRepo,
	tx txManager,
	defaultThreshold int,
	defaultWeekStart int,
) *Service {
	return &Service{
		trackers:         trackers,
		templates:        templates,
		instances:        instances,
		tasks:            tasks,
		links:            links,
		prefs:            prefs,
		tx:               tx,
		log:              log.With("service", "tracker"),
		defaultThreshold: defaultThreshold,
		defaultWeekStart: defaultWeekStart,
	}
}
