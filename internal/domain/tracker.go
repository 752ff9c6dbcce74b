package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tracker is a user-defined habit container that materializes into
// one TrackerInstance per period.
type Tracker struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	TimeMode     TimeMode
	Status       TrackerStatus
	GoalPeriod   *string
	GoalStartDay int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsDeleted returns true if the tracker has been soft-deleted.
func (t *Tracker) IsDeleted() bool { return t.DeletedAt != nil }

// IsActive returns true if the tracker generates new instances.
func (t *Tracker) IsActive() bool {
	return t.Status == TrackerStatusActive && t.DeletedAt == nil
}

// TaskTemplate is the mutable blueprint for a recurring task.
// Editing a template never changes task instances created from it;
// instances carry frozen snapshot copies of the template fields.
type TaskTemplate struct {
	ID            uuid.UUID
	TrackerID     uuid.UUID
	Description   string
	Category      *string
	Weight        int
	Points        int
	IncludeInGoal bool
	TimeOfDay     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// IsDeleted returns true if the template has been soft-deleted.
// Deleted templates are excluded from future instance generation;
// their historical task instances remain intact.
func (t *TaskTemplate) IsDeleted() bool { return t.DeletedAt != nil }

// Snapshot freezes the template fields carried into a new task instance.
func (t *TaskTemplate) Snapshot() TaskSnapshot {
	return TaskSnapshot{
		Description: t.Description,
		Points:      t.Points,
		Weight:      t.Weight,
	}
}

// TaskSnapshot is the immutable value object copied from a template
// into a task instance at creation time.
type TaskSnapshot struct {
	Description string
	Points      int
	Weight      int
}
