package instance

import (
	"context"
	"fmt"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// SetTaskStatus moves a task instance to a new status and maintains the
// completion timestamps: entering DONE stamps completed_at (and
// first_completed_at once, permanently), leaving DONE clears completed_at.
// Setting the current status again is a no-op, repeated offline toggles
// replay cleanly. The result names the active goals fed by the task's
// template so callers can recompute them.
func (s *Service) SetTaskStatus(ctx context.Context, input SetTaskStatusInput) (*ToggleResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	twt, err := s.tasks.GetByID(ctx, input.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if twt.OwnerID != userID {
		return nil, fmt.Errorf("task %s: %w", input.TaskID, domain.ErrNotFound)
	}

	task := twt.Task
	oldStatus := task.Status

	result := &ToggleResult{
		TaskID:     task.ID,
		TrackerID:  twt.TrackerID,
		TemplateID: task.TemplateID,
		OldStatus:  oldStatus,
		NewStatus:  input.Status,
	}

	statusChanged := oldStatus != input.Status
	notesChanged := input.Notes != nil && (task.Notes == nil || *task.Notes != *input.Notes)
	if !statusChanged && !notesChanged {
		return result, nil
	}

	if statusChanged {
		task.Status = input.Status
		now := s.now()
		switch {
		case input.Status == domain.TaskStatusDone:
			task.CompletedAt = &now
			if task.FirstCompletedAt == nil {
				task.FirstCompletedAt = &now
			}
		case oldStatus == domain.TaskStatusDone:
			task.CompletedAt = nil
		}
	}
	if input.Notes != nil {
		task.Notes = input.Notes
	}

	if err := s.tasks.Update(ctx, &task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	// DONE transitions in either direction move goal progress
	if statusChanged && (input.Status == domain.TaskStatusDone || oldStatus == domain.TaskStatusDone) {
		goalIDs, err := s.goals.ListGoalIDsByTemplate(ctx, task.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("list affected goals: %w", err)
		}
		result.AffectedGoalIDs = goalIDs
	}

	s.log.Info("task status changed",
		"task_id", task.ID,
		"from", oldStatus.String(),
		"to", input.Status.String(),
	)
	return result, nil
}
