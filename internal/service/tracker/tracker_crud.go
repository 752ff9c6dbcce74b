package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// CreateTracker creates a new active tracker for the current user.
func (s *Service) CreateTracker(ctx context.Context, input CreateTrackerInput) (*domain.Tracker, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.trackers.Create(ctx, &domain.Tracker{
		ID:           uuid.New(),
		OwnerID:      userID,
		Name:         input.Name,
		TimeMode:     input.TimeMode,
		Status:       domain.TrackerStatusActive,
		GoalPeriod:   input.GoalPeriod,
		GoalStartDay: input.GoalStartDay,
	})
	if err != nil {
		return nil, fmt.Errorf("create tracker: %w", err)
	}

	s.log.Info("tracker created", "tracker_id", created.ID, "time_mode", created.TimeMode.String())
	return created, nil
}

// GetTracker returns one tracker of the current user.
func (s *Service) GetTracker(ctx context.Context, trackerID uuid.UUID) (*domain.Tracker, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	tr, err := s.trackers.GetByID(ctx, userID, trackerID)
	if err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}
	return tr, nil
}

// ListTrackers returns all live trackers of the current user.
func (s *Service) ListTrackers(ctx context.Context) ([]domain.Tracker, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	trackers, err := s.trackers.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trackers: %w", err)
	}
	return trackers, nil
}

// UpdateTracker applies the provided field changes to a tracker.
func (s *Service) UpdateTracker(ctx context.Context, input UpdateTrackerInput) (*domain.Tracker, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	tr, err := s.trackers.GetByID(ctx, userID, input.TrackerID)
	if err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	if input.Name != nil {
		tr.Name = *input.Name
	}
	if input.Status != nil {
		tr.Status = *input.Status
	}
	if input.GoalPeriod != nil {
		tr.GoalPeriod = input.GoalPeriod
	}
	if input.GoalStartDay != nil {
		tr.GoalStartDay = *input.GoalStartDay
	}

	updated, err := s.trackers.Update(ctx, tr)
	if err != nil {
		return nil, fmt.Errorf("update tracker: %w", err)
	}
	return updated, nil
}

// DeleteTracker soft-deletes a tracker and everything under it: templates,
// instances and task instances, all stamped with the same deletion time in
// one transaction.
func (s *Service) DeleteTracker(ctx context.Context, trackerID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	now := time.Now().UTC()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.trackers.SoftDelete(ctx, userID, trackerID, now); err != nil {
			return fmt.Errorf("soft delete tracker: %w", err)
		}
		// tasks first: their cascade query walks live instances
		if _, err := s.tasks.SoftDeleteByTracker(ctx, trackerID, now); err != nil {
			return fmt.Errorf("soft delete task instances: %w", err)
		}
		if _, err := s.instances.SoftDeleteByTracker(ctx, trackerID, now); err != nil {
			return fmt.Errorf("soft delete instances: %w", err)
		}
		if _, err := s.templates.SoftDeleteByTracker(ctx, trackerID, now); err != nil {
			return fmt.Errorf("soft delete templates: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("tracker deleted", "tracker_id", trackerID)
	return nil
}

// RestoreTracker clears the soft-delete mark on a tracker. Dependent rows
// deleted by the cascade stay deleted; only the container comes back.
func (s *Service) RestoreTracker(ctx context.Context, trackerID uuid.UUID) (*domain.Tracker, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	restored, err := s.trackers.Restore(ctx, userID, trackerID)
	if err != nil {
		return nil, fmt.Errorf("restore tracker: %w", err)
	}
	return restored, nil
}
