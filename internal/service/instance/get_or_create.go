package instance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/internal/period"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// GetOrCreateInstance resolves the instance covering the given calendar
// date, materializing it with snapshot tasks on first access. Two devices
// racing on the same period both end up with the single winning row.
func (s *Service) GetOrCreateInstance(ctx context.Context, input GetOrCreateInput) (*InstanceWithTasks, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	tracker, err := s.trackers.GetByID(ctx, userID, input.TrackerID)
	if err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	p, err := period.For(input.Date, tracker.TimeMode, s.weekStartFor(ctx, userID))
	if err != nil {
		return nil, err
	}

	inst, err := s.instances.GetByTrackingDate(ctx, tracker.ID, p.TrackingDate)
	switch {
	case err == nil:
		// already materialized
	case errors.Is(err, domain.ErrNotFound):
		if !tracker.IsActive() {
			return nil, fmt.Errorf("tracker %s is not active: %w", tracker.ID, domain.ErrConflict)
		}
		inst, err = s.materialize(ctx, tracker.ID, p)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("get instance: %w", err)
	}

	tasks, err := s.tasks.ListByInstance(ctx, inst.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &InstanceWithTasks{Instance: *inst, Tasks: tasks}, nil
}

// ListInstances returns the materialized instances of a tracker over a
// date range together with their tasks. Nothing is created on this path.
func (s *Service) ListInstances(ctx context.Context, input ListInstancesInput) ([]InstanceWithTasks, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.trackers.GetByID(ctx, userID, input.TrackerID); err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	instances, err := s.instances.ListBetween(ctx, input.TrackerID,
		period.DateOnly(input.From), period.DateOnly(input.To))
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	out := make([]InstanceWithTasks, 0, len(instances))
	for _, inst := range instances {
		tasks, err := s.tasks.ListByInstance(ctx, inst.ID)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, InstanceWithTasks{Instance: inst, Tasks: tasks})
	}
	return out, nil
}

// materialize creates the instance row plus one task per live template,
// all in one transaction. A unique-violation race is resolved by fetching
// the row the other writer created.
func (s *Service) materialize(ctx context.Context, trackerID uuid.UUID, p period.Period) (*domain.TrackerInstance, error) {
	return s.materializeWithStatus(ctx, trackerID, p, domain.TaskStatusTodo)
}

func (s *Service) materializeWithStatus(ctx context.Context, trackerID uuid.UUID, p period.Period, status domain.TaskStatus) (*domain.TrackerInstance, error) {
	var created *domain.TrackerInstance

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		inst, err := s.instances.Create(ctx, &domain.TrackerInstance{
			ID:           uuid.New(),
			TrackerID:    trackerID,
			TrackingDate: p.TrackingDate,
			PeriodStart:  p.Start,
			PeriodEnd:    p.End,
		})
		if err != nil {
			return err
		}

		templates, err := s.templates.ListActiveByTracker(ctx, trackerID)
		if err != nil {
			return fmt.Errorf("list templates: %w", err)
		}

		tasks := make([]domain.TaskInstance, 0, len(templates))
		for _, tpl := range templates {
			tasks = append(tasks, domain.TaskInstance{
				ID:         uuid.New(),
				InstanceID: inst.ID,
				TemplateID: tpl.ID,
				Status:     status,
				Snapshot:   tpl.Snapshot(),
			})
		}
		if err := s.tasks.CreateBatch(ctx, tasks); err != nil {
			return fmt.Errorf("create tasks: %w", err)
		}

		created = inst
		return nil
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// another writer won the race, use its row
		existing, getErr := s.instances.GetByTrackingDate(ctx, trackerID, p.TrackingDate)
		if getErr != nil {
			return nil, fmt.Errorf("get racing instance: %w", getErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("materialize instance: %w", err)
	}

	s.log.Debug("instance materialized",
		"tracker_id", trackerID,
		"tracking_date", p.TrackingDate.Format(time.DateOnly),
	)
	return created, nil
}
