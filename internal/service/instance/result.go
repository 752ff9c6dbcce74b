package instance

import (
	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// InstanceWithTasks pairs a tracker instance with its task rows.
type InstanceWithTasks struct {
	Instance domain.TrackerInstance
	Tasks    []domain.TaskInstance
}

// GenerateResult summarizes a range generation run.
type GenerateResult struct {
	// Created is the number of instances materialized by this run.
	Created int
	// Skipped is the number of periods that already had an instance.
	Skipped int
}

// ToggleResult describes a completed task status change. AffectedGoalIDs
// lists the active goals fed by the task's template; callers recompute
// exactly these.
type ToggleResult struct {
	TaskID          uuid.UUID
	TrackerID       uuid.UUID
	TemplateID      uuid.UUID
	OldStatus       domain.TaskStatus
	NewStatus       domain.TaskStatus
	AffectedGoalIDs []uuid.UUID
}
