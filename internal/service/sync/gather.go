package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// gather collects the server rows a device is missing: everything owned
// by the user that changed after its last sync timestamp, soft-deleted
// rows included so the device can tombstone its local copies.
func (s *Service) gather(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.EntityChange, error) {
	var changes []domain.EntityChange

	trackers, err := s.trackers.ListChangedSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list changed trackers: %w", err)
	}
	for _, t := range trackers {
		changes = append(changes, domain.EntityChange{
			EntityType: domain.SyncEntityTracker,
			EntityID:   t.ID,
			State:      trackerState(t),
			UpdatedAt:  t.UpdatedAt,
			Deleted:    t.DeletedAt != nil,
		})
	}

	tasks, err := s.tasks.ListChangedSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list changed tasks: %w", err)
	}
	for _, twt := range tasks {
		changes = append(changes, domain.EntityChange{
			EntityType: domain.SyncEntityTaskInstance,
			EntityID:   twt.Task.ID,
			State:      taskState(twt.Task),
			UpdatedAt:  twt.Task.UpdatedAt,
			Deleted:    twt.Task.DeletedAt != nil,
		})
	}

	goals, err := s.goals.ListChangedSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list changed goals: %w", err)
	}
	for _, g := range goals {
		changes = append(changes, domain.EntityChange{
			EntityType: domain.SyncEntityGoal,
			EntityID:   g.ID,
			State:      goalState(g),
			UpdatedAt:  g.UpdatedAt,
			Deleted:    g.DeletedAt != nil,
		})
	}

	return changes, nil
}

func trackerState(t domain.Tracker) map[string]any {
	return map[string]any{
		"name":           t.Name,
		"status":         string(t.Status),
		"time_mode":      string(t.TimeMode),
		"goal_period":    t.GoalPeriod,
		"goal_start_day": t.GoalStartDay,
	}
}

func taskState(t domain.TaskInstance) map[string]any {
	return map[string]any{
		"status":             string(t.Status),
		"notes":              t.Notes,
		"completed_at":       t.CompletedAt,
		"first_completed_at": t.FirstCompletedAt,
	}
}

func goalState(g domain.Goal) map[string]any {
	return map[string]any{
		"title":         g.Title,
		"target_value":  g.TargetValue,
		"current_value": g.CurrentValue,
		"status":        string(g.Status),
		"target_date":   g.TargetDate,
		"priority":      g.Priority,
	}
}
