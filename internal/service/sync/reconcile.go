package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// Reconcile applies a device's offline change queue with field-level
// last-writer-wins and returns what changed on the server side since the
// device's last sync.
//
// A change wins when its client timestamp (plus the configured clock skew
// tolerance) is not older than the server row's updated_at; the winning
// write stamps updated_at with the client time so replays of the same
// queue are no-ops: a change whose values already match server state is
// neither applied nor a conflict, it simply drops out of the result. A
// losing change becomes a conflict entry carrying the server's current
// values, never an error.
func (s *Service) Reconcile(ctx context.Context, input ReconcileInput) (*domain.SyncResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.maxBatchSize); err != nil {
		return nil, err
	}

	serverNow := s.now()
	result := &domain.SyncResult{NewSyncTimestamp: serverNow}

	touched := newTouchedSet()
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, change := range input.Changes {
			conflict, wrote, err := s.applyChange(ctx, userID, change, serverNow, touched)
			if err != nil {
				return err
			}
			if conflict != nil {
				result.Conflicts = append(result.Conflicts, *conflict)
				continue
			}
			if wrote {
				result.Applied = append(result.Applied, change)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply changes: %w", err)
	}

	// Synced completions move goal progress the same way a live toggle
	// does. Runs after commit so the refreshed goals land in the pull below.
	if err := s.recomputeGoals(ctx, touched); err != nil {
		return nil, err
	}

	changes, err := s.gather(ctx, userID, input.Since)
	if err != nil {
		return nil, err
	}
	result.ServerChanges = changes

	s.log.Info("sync reconciled",
		"device_id", ctxutil.DeviceIDFromCtx(ctx),
		"applied", len(result.Applied),
		"conflicts", len(result.Conflicts),
		"server_changes", len(result.ServerChanges),
	)
	return result, nil
}

// applyChange resolves one client change. The bool reports whether a
// write actually happened; conflict-free changes whose values already
// match server state return false there.
func (s *Service) applyChange(ctx context.Context, userID uuid.UUID, c domain.ClientChange, serverNow time.Time, touched *touchedSet) (*domain.SyncConflict, bool, error) {
	allowed, ok := writable[c.EntityType]
	if !ok {
		return conflictOf(c, "unknown entity type", nil, serverNow), false, nil
	}
	if len(c.Fields) == 0 {
		return conflictOf(c, "empty field set", nil, serverNow), false, nil
	}
	for field := range c.Fields {
		if !allowed[field] {
			return conflictOf(c, fmt.Sprintf("field %q is not writable", field), nil, serverNow), false, nil
		}
	}

	switch c.EntityType {
	case domain.SyncEntityTracker:
		return s.applyTracker(ctx, userID, c, serverNow)
	case domain.SyncEntityTaskInstance:
		return s.applyTask(ctx, userID, c, serverNow, touched)
	case domain.SyncEntityGoal:
		return s.applyGoal(ctx, userID, c, serverNow, touched)
	default:
		return conflictOf(c, "unknown entity type", nil, serverNow), false, nil
	}
}

func (s *Service) applyTracker(ctx context.Context, userID uuid.UUID, c domain.ClientChange, serverNow time.Time) (*domain.SyncConflict, bool, error) {
	t, err := s.trackers.GetByID(ctx, userID, c.EntityID)
	if errors.Is(err, domain.ErrNotFound) {
		return conflictOf(c, "entity not found", nil, serverNow), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get tracker: %w", err)
	}

	if s.loses(c.ClientTime, t.UpdatedAt) {
		return conflictOf(c, "server state is newer", trackerState(*t), t.UpdatedAt), false, nil
	}

	fields := map[string]any{}
	if v, ok := c.Fields["name"]; ok {
		name, err := asString(v)
		if err != nil || name == "" {
			return conflictOf(c, "invalid name", trackerState(*t), t.UpdatedAt), false, nil
		}
		if name != t.Name {
			fields["name"] = name
		}
	}
	if v, ok := c.Fields["status"]; ok {
		raw, err := asString(v)
		status := domain.TrackerStatus(raw)
		if err != nil || !status.IsValid() {
			return conflictOf(c, "invalid status", trackerState(*t), t.UpdatedAt), false, nil
		}
		if status != t.Status {
			fields["status"] = raw
		}
	}
	if len(fields) == 0 {
		// all values already match: replayed change, nothing to write
		return nil, false, nil
	}

	if err := s.trackers.ApplyFields(ctx, userID, c.EntityID, fields, s.effectiveTime(c.ClientTime, serverNow)); err != nil {
		return nil, false, fmt.Errorf("apply tracker fields: %w", err)
	}
	return nil, true, nil
}

func (s *Service) applyTask(ctx context.Context, userID uuid.UUID, c domain.ClientChange, serverNow time.Time, touched *touchedSet) (*domain.SyncConflict, bool, error) {
	twt, err := s.tasks.GetByID(ctx, c.EntityID)
	if errors.Is(err, domain.ErrNotFound) {
		return conflictOf(c, "entity not found", nil, serverNow), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get task: %w", err)
	}
	if twt.OwnerID != userID {
		return conflictOf(c, "entity not found", nil, serverNow), false, nil
	}
	task := twt.Task

	if s.loses(c.ClientTime, task.UpdatedAt) {
		return conflictOf(c, "server state is newer", taskState(task), task.UpdatedAt), false, nil
	}

	effTime := s.effectiveTime(c.ClientTime, serverNow)
	fields := map[string]any{}

	if v, ok := c.Fields["status"]; ok {
		raw, err := asString(v)
		status := domain.TaskStatus(raw)
		if err != nil || !status.IsValid() {
			return conflictOf(c, "invalid status", taskState(task), task.UpdatedAt), false, nil
		}
		if status != task.Status {
			fields["status"] = raw
			// completion timestamps follow the status transition
			switch {
			case status == domain.TaskStatusDone:
				fields["completed_at"] = effTime
				if task.FirstCompletedAt == nil {
					fields["first_completed_at"] = effTime
				}
			case task.Status == domain.TaskStatusDone:
				fields["completed_at"] = nil
			}
		}
	}
	if v, ok := c.Fields["notes"]; ok {
		notes, err := asNullableString(v)
		if err != nil {
			return conflictOf(c, "invalid notes", taskState(task), task.UpdatedAt), false, nil
		}
		if !equalStringPtr(notes, task.Notes) {
			fields["notes"] = notes
		}
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	if err := s.tasks.ApplyFields(ctx, c.EntityID, fields, effTime); err != nil {
		return nil, false, fmt.Errorf("apply task fields: %w", err)
	}
	if _, ok := fields["status"]; ok {
		touched.templates[task.TemplateID] = true
	}
	return nil, true, nil
}

// touchedSet collects what reconciliation wrote that feeds goal progress:
// templates whose task statuses changed, and goals whose window or target
// changed.
type touchedSet struct {
	templates map[uuid.UUID]bool
	goals     map[uuid.UUID]bool
}

func newTouchedSet() *touchedSet {
	return &touchedSet{
		templates: map[uuid.UUID]bool{},
		goals:     map[uuid.UUID]bool{},
	}
}

// recomputeGoals refreshes every goal affected by the applied changes.
func (s *Service) recomputeGoals(ctx context.Context, touched *touchedSet) error {
	if len(touched.templates) == 0 && len(touched.goals) == 0 {
		return nil
	}

	seen := map[uuid.UUID]bool{}
	var goalIDs []uuid.UUID
	for id := range touched.goals {
		seen[id] = true
		goalIDs = append(goalIDs, id)
	}
	for templateID := range touched.templates {
		ids, err := s.goals.ListGoalIDsByTemplate(ctx, templateID)
		if err != nil {
			return fmt.Errorf("list goals for template %s: %w", templateID, err)
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				goalIDs = append(goalIDs, id)
			}
		}
	}
	if len(goalIDs) == 0 {
		return nil
	}

	if _, err := s.recomputer.RecomputeMany(ctx, goalIDs); err != nil {
		return fmt.Errorf("recompute synced goals: %w", err)
	}
	return nil
}

func (s *Service) applyGoal(ctx context.Context, userID uuid.UUID, c domain.ClientChange, serverNow time.Time, touched *touchedSet) (*domain.SyncConflict, bool, error) {
	g, err := s.goals.GetByID(ctx, userID, c.EntityID)
	if errors.Is(err, domain.ErrNotFound) {
		return conflictOf(c, "entity not found", nil, serverNow), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get goal: %w", err)
	}

	if s.loses(c.ClientTime, g.UpdatedAt) {
		return conflictOf(c, "server state is newer", goalState(*g), g.UpdatedAt), false, nil
	}

	fields := map[string]any{}
	if v, ok := c.Fields["title"]; ok {
		title, err := asString(v)
		if err != nil || title == "" {
			return conflictOf(c, "invalid title", goalState(*g), g.UpdatedAt), false, nil
		}
		if title != g.Title {
			fields["title"] = title
		}
	}
	if v, ok := c.Fields["target_value"]; ok {
		target, err := asFloat(v)
		if err != nil || target <= 0 {
			return conflictOf(c, "invalid target_value", goalState(*g), g.UpdatedAt), false, nil
		}
		if target != g.TargetValue {
			fields["target_value"] = target
		}
	}
	if v, ok := c.Fields["target_date"]; ok {
		date, err := asNullableTime(v)
		if err != nil {
			return conflictOf(c, "invalid target_date", goalState(*g), g.UpdatedAt), false, nil
		}
		if !equalTimePtr(date, g.TargetDate) {
			fields["target_date"] = date
		}
	}
	if v, ok := c.Fields["priority"]; ok {
		priority, err := asInt(v)
		if err != nil || priority < 0 {
			return conflictOf(c, "invalid priority", goalState(*g), g.UpdatedAt), false, nil
		}
		if priority != g.Priority {
			fields["priority"] = priority
		}
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	if err := s.goals.ApplyFields(ctx, userID, c.EntityID, fields, s.effectiveTime(c.ClientTime, serverNow)); err != nil {
		return nil, false, fmt.Errorf("apply goal fields: %w", err)
	}
	// A moved target or window can flip the goal's status either way.
	if _, ok := fields["target_value"]; ok {
		touched.goals[c.EntityID] = true
	} else if _, ok := fields["target_date"]; ok {
		touched.goals[c.EntityID] = true
	}
	return nil, true, nil
}

// loses reports whether a client timestamp is too old to win against the
// server row, after granting the skew tolerance.
func (s *Service) loses(clientTime, serverUpdatedAt time.Time) bool {
	return clientTime.Add(s.clockSkewTol).Before(serverUpdatedAt)
}

// effectiveTime clamps client timestamps from the future to the server
// clock so a fast device cannot make its rows unbeatable.
func (s *Service) effectiveTime(clientTime, serverNow time.Time) time.Time {
	if clientTime.After(serverNow) {
		return serverNow
	}
	return clientTime
}

func conflictOf(c domain.ClientChange, reason string, serverState map[string]any, serverTime time.Time) *domain.SyncConflict {
	return &domain.SyncConflict{
		EntityType:  c.EntityType,
		EntityID:    c.EntityID,
		Reason:      reason,
		ServerState: serverState,
		ServerTime:  serverTime,
	}
}
