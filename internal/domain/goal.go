package domain

import (
	"time"

	"github.com/google/uuid"
)

// Goal is a measurable target fed by one or more task templates through
// weighted mappings. CurrentValue is always recomputed by the goal
// service, never hand-edited by callers.
type Goal struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	TargetValue  float64
	CurrentValue float64
	Unit         *string
	Status       GoalStatus
	StartDate    *time.Time
	TargetDate   *time.Time
	Priority     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsDeleted returns true if the goal has been soft-deleted.
func (g *Goal) IsDeleted() bool { return g.DeletedAt != nil }

// Window returns the date window [from, to] inside which completions
// count toward the goal: explicit start date (or creation time) through
// the target date (or now when unset).
func (g *Goal) Window(now time.Time) (from, to time.Time) {
	from = g.CreatedAt
	if g.StartDate != nil {
		from = *g.StartDate
	}
	to = now
	if g.TargetDate != nil {
		to = *g.TargetDate
	}
	return from, to
}

// GoalTaskMapping links a goal to a task template. Each completion of the
// template contributes ContributionWeight to the goal; one template may
// feed many goals, each receiving the full per-mapping contribution.
type GoalTaskMapping struct {
	GoalID             uuid.UUID
	TemplateID         uuid.UUID
	ContributionWeight float64
	CreatedAt          time.Time
}
