package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Hand-written func-field mocks. A nil Func panics so a test that never
// expects a call fails loudly when one happens.

var (
	_ trackerRepo  = (*trackerRepoMock)(nil)
	_ templateRepo = (*templateRepoMock)(nil)
	_ instanceRepo = (*instanceRepoMock)(nil)
	_ taskRepo     = (*taskRepoMock)(nil)
	_ linkRepo     = (*linkRepoMock)(nil)
	_ prefsRepo    = (*prefsRepoMock)(nil)
	_ txManager    = (*txManagerMock)(nil)
)

type trackerRepoMock struct {
	GetByIDFunc     func(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
	ListByOwnerFunc func(ctx context.Context, ownerID uuid.UUID) ([]domain.Tracker, error)
	CreateFunc      func(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error)
	UpdateFunc      func(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error)
	SoftDeleteFunc  func(ctx context.Context, ownerID, trackerID uuid.UUID, now time.Time) error
	RestoreFunc     func(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
}

func (m *trackerRepoMock) GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error) {
	if m.GetByIDFunc == nil {
		panic("trackerRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, ownerID, trackerID)
}

func (m *trackerRepoMock) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Tracker, error) {
	if m.ListByOwnerFunc == nil {
		panic("trackerRepoMock.ListByOwnerFunc is nil")
	}
	return m.ListByOwnerFunc(ctx, ownerID)
}

func (m *trackerRepoMock) Create(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error) {
	if m.CreateFunc == nil {
		panic("trackerRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, t)
}

func (m *trackerRepoMock) Update(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error) {
	if m.UpdateFunc == nil {
		panic("trackerRepoMock.UpdateFunc is nil")
	}
	return m.UpdateFunc(ctx, t)
}

func (m *trackerRepoMock) SoftDelete(ctx context.Context, ownerID, trackerID uuid.UUID, now time.Time) error {
	if m.SoftDeleteFunc == nil {
		panic("trackerRepoMock.SoftDeleteFunc is nil")
	}
	return m.SoftDeleteFunc(ctx, ownerID, trackerID, now)
}

func (m *trackerRepoMock) Restore(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error) {
	if m.RestoreFunc == nil {
		panic("trackerRepoMock.RestoreFunc is nil")
	}
	return m.RestoreFunc(ctx, ownerID, trackerID)
}

type templateRepoMock struct {
	GetByIDFunc             func(ctx context.Context, templateID uuid.UUID) (*domain.TaskTemplate, error)
	ListActiveByTrackerFunc func(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error)
	CreateFunc              func(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error)
	UpdateFunc              func(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error)
	SoftDeleteFunc          func(ctx context.Context, templateID uuid.UUID, now time.Time) error
	SoftDeleteByTrackerFunc func(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, templateID uuid.UUID) (*domain.TaskTemplate, error) {
	if m.GetByIDFunc == nil {
		panic("templateRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, templateID)
}

func (m *templateRepoMock) ListActiveByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error) {
	if m.ListActiveByTrackerFunc == nil {
		panic("templateRepoMock.ListActiveByTrackerFunc is nil")
	}
	return m.ListActiveByTrackerFunc(ctx, trackerID)
}

func (m *templateRepoMock) Create(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	if m.CreateFunc == nil {
		panic("templateRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, t)
}

func (m *templateRepoMock) Update(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	if m.UpdateFunc == nil {
		panic("templateRepoMock.UpdateFunc is nil")
	}
	return m.UpdateFunc(ctx, t)
}

func (m *templateRepoMock) SoftDelete(ctx context.Context, templateID uuid.UUID, now time.Time) error {
	if m.SoftDeleteFunc == nil {
		panic("templateRepoMock.SoftDeleteFunc is nil")
	}
	return m.SoftDeleteFunc(ctx, templateID, now)
}

func (m *templateRepoMock) SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error) {
	if m.SoftDeleteByTrackerFunc == nil {
		panic("templateRepoMock.SoftDeleteByTrackerFunc is nil")
	}
	return m.SoftDeleteByTrackerFunc(ctx, trackerID, now)
}

type instanceRepoMock struct {
	SoftDeleteByTrackerFunc func(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error)
}

func (m *instanceRepoMock) SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error) {
	if m.SoftDeleteByTrackerFunc == nil {
		panic("instanceRepoMock.SoftDeleteByTrackerFunc is nil")
	}
	return m.SoftDeleteByTrackerFunc(ctx, trackerID, now)
}

type taskRepoMock struct {
	SoftDeleteByTrackerFunc func(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error)
}

func (m *taskRepoMock) SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error) {
	if m.SoftDeleteByTrackerFunc == nil {
		panic("taskRepoMock.SoftDeleteByTrackerFunc is nil")
	}
	return m.SoftDeleteByTrackerFunc(ctx, trackerID, now)
}

type linkRepoMock struct {
	GetByCodeFunc     func(ctx context.Context, code string) (*domain.ShareLink, error)
	ListByTrackerFunc func(ctx context.Context, trackerID uuid.UUID) ([]domain.ShareLink, error)
	CreateFunc        func(ctx context.Context, l *domain.ShareLink) (*domain.ShareLink, error)
	ConsumeFunc       func(ctx context.Context, code string, now time.Time) (*domain.ShareLink, error)
	DeleteFunc        func(ctx context.Context, linkID uuid.UUID) error
}

func (m *linkRepoMock) GetByCode(ctx context.Context, code string) (*domain.ShareLink, error) {
	if m.GetByCodeFunc == nil {
		panic("linkRepoMock.GetByCodeFunc is nil")
	}
	return m.GetByCodeFunc(ctx, code)
}

func (m *linkRepoMock) ListByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.ShareLink, error) {
	if m.ListByTrackerFunc == nil {
		panic("linkRepoMock.ListByTrackerFunc is nil")
	}
	return m.ListByTrackerFunc(ctx, trackerID)
}

func (m *linkRepoMock) Create(ctx context.Context, l *domain.ShareLink) (*domain.ShareLink, error) {
	if m.CreateFunc == nil {
		panic("linkRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, l)
}

func (m *linkRepoMock) Consume(ctx context.Context, code string, now time.Time) (*domain.ShareLink, error) {
	if m.ConsumeFunc == nil {
		panic("linkRepoMock.ConsumeFunc is nil")
	}
	return m.ConsumeFunc(ctx, code, now)
}

func (m *linkRepoMock) Delete(ctx context.Context, linkID uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("linkRepoMock.DeleteFunc is nil")
	}
	return m.DeleteFunc(ctx, linkID)
}

type prefsRepoMock struct {
	GetFunc    func(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
	UpsertFunc func(ctx context.Context, p *domain.UserPreferences) (*domain.UserPreferences, error)
}

func (m *prefsRepoMock) Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	if m.GetFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.GetFunc(ctx, userID)
}

func (m *prefsRepoMock) Upsert(ctx context.Context, p *domain.UserPreferences) (*domain.UserPreferences, error) {
	if m.UpsertFunc == nil {
		panic("prefsRepoMock.UpsertFunc is nil")
	}
	return m.UpsertFunc(ctx, p)
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
