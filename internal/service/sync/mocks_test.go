package sync

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
	_ trackerRepo    = (*trackerRepoMock)(nil)
	_ taskRepo       = (*taskRepoMock)(nil)
	_ goalRepo       = (*goalRepoMock)(nil)
	_ goalRecomputer = (*goalRecomputerMock)(nil)
	_ txManager      = (*txManagerMock)(nil)
)

type trackerRepoMock struct {
	GetByIDFunc          func(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error)
	ApplyFieldsFunc      func(ctx context.Context, ownerID, trackerID uuid.UUID, fields map[string]any, updatedAt time.Time) error
	ListChangedSinceFunc func(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Tracker, error)
}

func (m *trackerRepoMock) GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error) {
	if m.GetByIDFunc == nil {
		panic("trackerRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, ownerID, trackerID)
}

func (m *trackerRepoMock) ApplyFields(ctx context.Context, ownerID, trackerID uuid.UUID, fields map[string]any, updatedAt time.Time) error {
	if m.ApplyFieldsFunc == nil {
		panic("trackerRepoMock.ApplyFieldsFunc is nil")
	}
	return m.ApplyFieldsFunc(ctx, ownerID, trackerID, fields, updatedAt)
}

func (m *trackerRepoMock) ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Tracker, error) {
	if m.ListChangedSinceFunc == nil {
		return nil, nil
	}
	return m.ListChangedSinceFunc(ctx, ownerID, since)
}

type taskRepoMock struct {
	GetByIDFunc          func(ctx context.Context, taskID uuid.UUID) (*taskinstance.TaskWithTracker, error)
	ApplyFieldsFunc      func(ctx context.Context, taskID uuid.UUID, fields map[string]any, updatedAt time.Time) error
	ListChangedSinceFunc func(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]taskinstance.TaskWithTracker, error)
}

func (m *taskRepoMock) GetByID(ctx context.Context, taskID uuid.UUID) (*taskinstance.TaskWithTracker, error) {
	if m.GetByIDFunc == nil {
		panic("taskRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, taskID)
}

func (m *taskRepoMock) ApplyFields(ctx context.Context, taskID uuid.UUID, fields map[string]any, updatedAt time.Time) error {
	if m.ApplyFieldsFunc == nil {
		panic("taskRepoMock.ApplyFieldsFunc is nil")
	}
	return m.ApplyFieldsFunc(ctx, taskID, fields, updatedAt)
}

func (m *taskRepoMock) ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]taskinstance.TaskWithTracker, error) {
	if m.ListChangedSinceFunc == nil {
		return nil, nil
	}
	return m.ListChangedSinceFunc(ctx, ownerID, since)
}

type goalRepoMock struct {
	GetByIDFunc               func(ctx context.Context, ownerID, goalID uuid.UUID) (*domain.Goal, error)
	ApplyFieldsFunc           func(ctx context.Context, ownerID, goalID uuid.UUID, fields map[string]any, updatedAt time.Time) error
	ListChangedSinceFunc      func(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Goal, error)
	ListGoalIDsByTemplateFunc func(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error)
}

func (m *goalRepoMock) GetByID(ctx context.Context, ownerID, goalID uuid.UUID) (*domain.Goal, error) {
	if m.GetByIDFunc == nil {
		panic("goalRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, ownerID, goalID)
}

func (m *goalRepoMock) ApplyFields(ctx context.Context, ownerID, goalID uuid.UUID, fields map[string]any, updatedAt time.Time) error {
	if m.ApplyFieldsFunc == nil {
		panic("goalRepoMock.ApplyFieldsFunc is nil")
	}
	return m.ApplyFieldsFunc(ctx, ownerID, goalID, fields, updatedAt)
}

func (m *goalRepoMock) ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Goal, error) {
	if m.ListChangedSinceFunc == nil {
		return nil, nil
	}
	return m.ListChangedSinceFunc(ctx, ownerID, since)
}

func (m *goalRepoMock) ListGoalIDsByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListGoalIDsByTemplateFunc == nil {
		return nil, nil
	}
	return m.ListGoalIDsByTemplateFunc(ctx, templateID)
}

type goalRecomputerMock struct {
	RecomputeManyFunc func(ctx context.Context, goalIDs []uuid.UUID) ([]domain.Goal, error)
}

func (m *goalRecomputerMock) RecomputeMany(ctx context.Context, goalIDs []uuid.UUID) ([]domain.Goal, error) {
	if m.RecomputeManyFunc == nil {
		panic("goalRecomputerMock.RecomputeManyFunc is nil")
	}
	return m.RecomputeManyFunc(ctx, goalIDs)
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
