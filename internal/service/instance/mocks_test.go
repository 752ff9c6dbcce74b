package instance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/adapter/postgres/taskinstance"
	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Hand-written func-field mocks. A nil Func panics so a test that never
// expects a call fails loudly when one happens.

var (
	_ trackerRepo  = (*trackerRepoMock)(nil)
	_ templateRepo = (*templateRepoMock)(nil)
	_ instanceRepo = (*instanceRepoMock)(nil)
	_ taskRepo     = (*taskRepoMock)(nil)
	_ goalRepo     = (*goalRepoMock)(nil)
	_ prefsRepo    = (*prefsRepoMock)(nil)
	_ txManager    = (*txManagerMock)(nil)
)

type trackerRepoMock struct {
	GetByIDFunc func(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
}

func (m *trackerRepoMock) GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error) {
	if m.GetByIDFunc == nil {
		panic("trackerRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, ownerID, trackerID)
}

type templateRepoMock struct {
	ListActiveByTrackerFunc func(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error)
}

func (m *templateRepoMock) ListActiveByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error) {
	if m.ListActiveByTrackerFunc == nil {
		panic("templateRepoMock.ListActiveByTrackerFunc is nil")
	}
	return m.ListActiveByTrackerFunc(ctx, trackerID)
}

type instanceRepoMock struct {
	GetByIDFunc                  func(ctx context.Context, instanceID uuid.UUID) (*domain.TrackerInstance, error)
	GetByTrackingDateFunc        func(ctx context.Context, trackerID uuid.UUID, trackingDate time.Time) (*domain.TrackerInstance, error)
	ListBetweenFunc              func(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]domain.TrackerInstance, error)
	ListTrackingDatesBetweenFunc func(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]time.Time, error)
	CreateFunc                   func(ctx context.Context, inst *domain.TrackerInstance) (*domain.TrackerInstance, error)
}

func (m *instanceRepoMock) GetByID(ctx context.Context, instanceID uuid.UUID) (*domain.TrackerInstance, error) {
	if m.GetByIDFunc == nil {
		panic("instanceRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, instanceID)
}

func (m *instanceRepoMock) GetByTrackingDate(ctx context.Context, trackerID uuid.UUID, trackingDate time.Time) (*domain.TrackerInstance, error) {
	if m.GetByTrackingDateFunc == nil {
		panic("instanceRepoMock.GetByTrackingDateFunc is nil")
	}
	return m.GetByTrackingDateFunc(ctx, trackerID, trackingDate)
}

func (m *instanceRepoMock) ListBetween(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]domain.TrackerInstance, error) {
	if m.ListBetweenFunc == nil {
		panic("instanceRepoMock.ListBetweenFunc is nil")
	}
	return m.ListBetweenFunc(ctx, trackerID, from, to)
}

func (m *instanceRepoMock) ListTrackingDatesBetween(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	if m.ListTrackingDatesBetweenFunc == nil {
		panic("instanceRepoMock.ListTrackingDatesBetweenFunc is nil")
	}
	return m.ListTrackingDatesBetweenFunc(ctx, trackerID, from, to)
}

func (m *instanceRepoMock) Create(ctx context.Context, inst *domain.TrackerInstance) (*domain.TrackerInstance, error) {
	if m.CreateFunc == nil {
		panic("instanceRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, inst)
}

type taskRepoMock struct {
	GetByIDFunc        func(ctx context.Context, taskID uuid.UUID) (*taskinstance.TaskWithTracker, error)
	ListByInstanceFunc func(ctx context.Context, instanceID uuid.UUID) ([]domain.TaskInstance, error)
	CreateBatchFunc    func(ctx context.Context, tasks []domain.TaskInstance) error
	UpdateFunc         func(ctx context.Context, t *domain.TaskInstance) error
}

func (m *taskRepoMock) GetByID(ctx context.Context, taskID uuid.UUID) (*taskinstance.TaskWithTracker, error) {
	if m.GetByIDFunc == nil {
		panic("taskRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, taskID)
}

func (m *taskRepoMock) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]domain.TaskInstance, error) {
	if m.ListByInstanceFunc == nil {
		panic("taskRepoMock.ListByInstanceFunc is nil")
	}
	return m.ListByInstanceFunc(ctx, instanceID)
}

func (m *taskRepoMock) CreateBatch(ctx context.Context, tasks []domain.TaskInstance) error {
	if m.CreateBatchFunc == nil {
		panic("taskRepoMock.CreateBatchFunc is nil")
	}
	return m.CreateBatchFunc(ctx, tasks)
}

func (m *taskRepoMock) Update(ctx context.Context, t *domain.TaskInstance) error {
	if m.UpdateFunc == nil {
		panic("taskRepoMock.UpdateFunc is nil")
	}
	return m.UpdateFunc(ctx, t)
}

type goalRepoMock struct {
	ListGoalIDsByTemplateFunc func(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error)
}

func (m *goalRepoMock) ListGoalIDsByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListGoalIDsByTemplateFunc == nil {
		panic("goalRepoMock.ListGoalIDsByTemplateFunc is nil")
	}
	return m.ListGoalIDsByTemplateFunc(ctx, templateID)
}

// prefsRepoMock with a nil GetFunc behaves as "no stored preferences",
// which makes the service fall back to its defaults.
type prefsRepoMock struct {
	GetFunc func(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
}

func (m *prefsRepoMock) Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	if m.GetFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.GetFunc(ctx, userID)
}

// txManagerMock with a nil RunInTxFunc just runs the callback.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		return fn(ctx)
	}
	return m.RunInTxFunc(ctx, fn)
}
