package goal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// Recompute rebuilds a goal's current value from scratch: for every active
// mapping, DONE completions of the template inside the goal window
// contribute count times the mapping weight. The additive model is
// deliberate, there is no double-count suppression when one template feeds
// several goals; each goal receives its own full contribution.
//
// Crossing the target flips the goal to ACHIEVED and emits an event;
// progress moving back below the target (a completion was untoggled)
// returns it to ACTIVE. PAUSED and ABANDONED goals keep their status but
// still get a fresh current value.
func (s *Service) Recompute(ctx context.Context, goalID uuid.UUID) (*domain.Goal, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var updated *domain.Goal
	var achieved bool

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		g, err := s.goals.GetByID(ctx, userID, goalID)
		if err != nil {
			return fmt.Errorf("get goal: %w", err)
		}

		mappings, err := s.goals.ListActiveMappings(ctx, goalID)
		if err != nil {
			return fmt.Errorf("list mappings: %w", err)
		}

		from, to := g.Window(s.now())

		var total float64
		for _, m := range mappings {
			count, err := s.tasks.CountDoneInWindow(ctx, m.TemplateID, from, to)
			if err != nil {
				return fmt.Errorf("count completions for template %s: %w", m.TemplateID, err)
			}
			total += float64(count) * m.ContributionWeight
		}

		status := g.Status
		switch {
		case status == domain.GoalStatusActive && total >= g.TargetValue:
			status = domain.GoalStatusAchieved
			achieved = true
		case status == domain.GoalStatusAchieved && total < g.TargetValue:
			status = domain.GoalStatusActive
		}

		updated, err = s.goals.UpdateProgress(ctx, goalID, total, status)
		if err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if achieved && s.events != nil {
		s.events.Dispatch(domain.Event{
			Type:     domain.EventTypeGoalAchieved,
			UserID:   userID,
			EntityID: updated.ID,
			Payload: map[string]any{
				"title":         updated.Title,
				"target_value":  updated.TargetValue,
				"current_value": updated.CurrentValue,
			},
			OccurredAt: s.now(),
		})
		s.log.Info("goal achieved", "goal_id", updated.ID)
	}

	return updated, nil
}

// RecomputeMany recomputes a batch of goals, typically the affected set
// returned by a task toggle. Errors are joined per goal so one failure
// does not hide the rest.
func (s *Service) RecomputeMany(ctx context.Context, goalIDs []uuid.UUID) ([]domain.Goal, error) {
	out := make([]domain.Goal, 0, len(goalIDs))
	for _, id := range goalIDs {
		g, err := s.Recompute(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("recompute goal %s: %w", id, err)
		}
		out = append(out, *g)
	}
	return out, nil
}
