package goal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Hand-written func-field mocks. A nil Func panics so a test that never
// expects a call fails loudly when one happens.

var (
	_ goalRepo     = (*goalRepoMock)(nil)
	_ templateRepo = (*templateRepoMock)(nil)
	_ trackerRepo  = (*trackerRepoMock)(nil)
	_ taskRepo     = (*taskRepoMock)(nil)
	_ eventSink    = (*eventSinkMock)(nil)
	_ txManager    = (*txManagerMock)(nil)
)

type goalRepoMock struct {
	GetByIDFunc            func(ctx context.Context, ownerID, goalID uuid.UUID) (*domain.Goal, error)
	ListByOwnerFunc        func(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error)
	CreateFunc             func(ctx context.Context, g *domain.Goal) (*domain.Goal, error)
	UpdateFunc             func(ctx context.Context, g *domain.Goal) (*domain.Goal, error)
	UpdateProgressFunc     func(ctx context.Context, goalID uuid.UUID, currentValue float64, status domain.GoalStatus) (*domain.Goal, error)
	SoftDeleteFunc         func(ctx context.Context, ownerID, goalID uuid.UUID, now time.Time) error
	AttachFunc             func(ctx context.Context, goalID, templateID uuid.UUID, weight float64) error
	DetachFunc             func(ctx context.Context, goalID, templateID uuid.UUID) error
	ListActiveMappingsFunc func(ctx context.Context, goalID uuid.UUID) ([]domain.GoalTaskMapping, error)
}

func (m *goalRepoMock) GetByID(ctx context.Context, ownerID, goalID uuid.UUID) (*domain.Goal, error) {
	if m.GetByIDFunc == nil {
		panic("goalRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, ownerID, goalID)
}

func (m *goalRepoMock) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error) {
	if m.ListByOwnerFunc == nil {
		panic("goalRepoMock.ListByOwnerFunc is nil")
	}
	return m.ListByOwnerFunc(ctx, ownerID)
}

func (m *goalRepoMock) Create(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	if m.CreateFunc == nil {
		panic("goalRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, g)
}

func (m *goalRepoMock) Update(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	if m.UpdateFunc == nil {
		panic("goalRepoMock.UpdateFunc is nil")
	}
	return m.UpdateFunc(ctx, g)
}

func (m *goalRepoMock) UpdateProgress(ctx context.Context, goalID uuid.UUID, currentValue float64, status domain.GoalStatus) (*domain.Goal, error) {
	if m.UpdateProgressFunc == nil {
		panic("goalRepoMock.UpdateProgressFunc is nil")
	}
	return m.UpdateProgressFunc(ctx, goalID, currentValue, status)
}

func (m *goalRepoMock) SoftDelete(ctx context.Context, ownerID, goalID uuid.UUID, now time.Time) error {
	if m.SoftDeleteFunc == nil {
		panic("goalRepoMock.SoftDeleteFunc is nil")
	}
	return m.SoftDeleteFunc(ctx, ownerID, goalID, now)
}

func (m *goalRepoMock) Attach(ctx context.Context, goalID, templateID uuid.UUID, weight float64) error {
	if m.AttachFunc == nil {
		panic("goalRepoMock.AttachFunc is nil")
	}
	return m.AttachFunc(ctx, goalID, templateID, weight)
}

func (m *goalRepoMock) Detach(ctx context.Context, goalID, templateID uuid.UUID) error {
	if m.DetachFunc == nil {
		panic("goalRepoMock.DetachFunc is nil")
	}
	return m.DetachFunc(ctx, goalID, templateID)
}

func (m *goalRepoMock) ListActiveMappings(ctx context.Context, goalID uuid.UUID) ([]domain.GoalTaskMapping, error) {
	if m.ListActiveMappingsFunc == nil {
		panic("goalRepoMock.ListActiveMappingsFunc is nil")
	}
	return m.ListActiveMappingsFunc(ctx, goalID)
}

type templateRepoMock struct {
	GetByIDFunc func(ctx context.Context, templateID uuid.UUID) (*domain.TaskTemplate, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, templateID uuid.UUID) (*domain.TaskTemplate, error) {
	if m.GetByIDFunc == nil {
		panic("templateRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, templateID)
}

type trackerRepoMock struct {
	GetByIDFunc func(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
}

func (m *trackerRepoMock) GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error) {
	if m.GetByIDFunc == nil {
		panic("trackerRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, ownerID, trackerID)
}

type taskRepoMock struct {
	CountDoneInWindowFunc func(ctx context.Context, templateID uuid.UUID, from, to time.Time) (int, error)
}

func (m *taskRepoMock) CountDoneInWindow(ctx context.Context, templateID uuid.UUID, from, to time.Time) (int, error) {
	if m.CountDoneInWindowFunc == nil {
		panic("taskRepoMock.CountDoneInWindowFunc is nil")
	}
	return m.CountDoneInWindowFunc(ctx, templateID, from, to)
}

type eventSinkMock struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *eventSinkMock) Dispatch(event domain.Event) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
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
