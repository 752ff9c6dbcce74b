package goal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// AttachTemplate links a task template to a goal. Both sides must belong
// to the current user. Attaching an existing link is a no-op; the original
// contribution weight wins. Progress picks the new source up immediately.
func (s *Service) AttachTemplate(ctx context.Context, input AttachTemplateInput) (*domain.Goal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.goals.GetByID(ctx, userID, input.GoalID); err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if err := s.checkTemplateOwnership(ctx, userID, input.TemplateID); err != nil {
		return nil, err
	}

	if err := s.goals.Attach(ctx, input.GoalID, input.TemplateID, input.ContributionWeight); err != nil {
		return nil, fmt.Errorf("attach template: %w", err)
	}

	return s.Recompute(ctx, input.GoalID)
}

// DetachTemplate removes a goal-template link and recomputes the goal:
// completions that arrived through the detached template stop counting.
func (s *Service) DetachTemplate(ctx context.Context, goalID, templateID uuid.UUID) (*domain.Goal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.goals.GetByID(ctx, userID, goalID); err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	if err := s.goals.Detach(ctx, goalID, templateID); err != nil {
		return nil, fmt.Errorf("detach template: %w", err)
	}

	return s.Recompute(ctx, goalID)
}

// ListMappings returns the active mappings of a goal.
func (s *Service) ListMappings(ctx context.Context, goalID uuid.UUID) ([]domain.GoalTaskMapping, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.goals.GetByID(ctx, userID, goalID); err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	mappings, err := s.goals.ListActiveMappings(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return mappings, nil
}

// checkTemplateOwnership verifies the template's tracker belongs to userID.
func (s *Service) checkTemplateOwnership(ctx context.Context, userID, templateID uuid.UUID) error {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return fmt.Errorf("get template: %w", err)
	}
	if _, err := s.trackers.GetByID(ctx, userID, tpl.TrackerID); err != nil {
		return fmt.Errorf("get tracker: %w", err)
	}
	return nil
}
