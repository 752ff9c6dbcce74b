package goal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/internal/period"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// CreateGoal creates a new active goal for the current user.
func (s *Service) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.TargetDate != nil && input.TargetDate.Before(period.DateOnly(s.now())) {
		return nil, domain.NewValidationError("target_date", "must not be in the past")
	}

	created, err := s.goals.Create(ctx, &domain.Goal{
		ID:          uuid.New(),
		OwnerID:     userID,
		Title:       input.Title,
		TargetValue: input.TargetValue,
		Unit:        input.Unit,
		Status:      domain.GoalStatusActive,
		StartDate:   input.StartDate,
		TargetDate:  input.TargetDate,
		Priority:    input.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	s.log.Info("goal created", "goal_id", created.ID, "target_value", created.TargetValue)
	return created, nil
}

// GetGoal returns one goal of the current user.
func (s *Service) GetGoal(ctx context.Context, goalID uuid.UUID) (*domain.Goal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	g, err := s.goals.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// ListGoals returns all live goals of the current user.
func (s *Service) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	goals, err := s.goals.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// UpdateGoal applies the provided field changes. Moving the window or the
// target value changes what counts, so progress is recomputed in the same
// call.
func (s *Service) UpdateGoal(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.TargetDate != nil && input.TargetDate.Before(period.DateOnly(s.now())) {
		return nil, domain.NewValidationError("target_date", "must not be in the past")
	}

	g, err := s.goals.GetByID(ctx, userID, input.GoalID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	if input.Title != nil {
		g.Title = *input.Title
	}
	if input.TargetValue != nil {
		g.TargetValue = *input.TargetValue
	}
	if input.Unit != nil {
		g.Unit = input.Unit
	}
	if input.Status != nil {
		g.Status = *input.Status
	}
	if input.StartDate != nil {
		g.StartDate = input.StartDate
	}
	if input.TargetDate != nil {
		g.TargetDate = input.TargetDate
	}
	if input.Priority != nil {
		g.Priority = *input.Priority
	}

	if _, err := s.goals.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	return s.Recompute(ctx, g.ID)
}

// DeleteGoal soft-deletes a goal. Its mappings stay in place for a
// possible restore.
func (s *Service) DeleteGoal(ctx context.Context, goalID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.goals.SoftDelete(ctx, userID, goalID, s.now()); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	s.log.Info("goal deleted", "goal_id", goalID)
	return nil
}
