package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackerInstance is one materialized time-period occurrence of a tracker.
// (TrackerID, TrackingDate) is unique; for DAILY trackers PeriodStart ==
// PeriodEnd == TrackingDate, for WEEKLY/MONTHLY the period spans the full
// week/month and TrackingDate is the period anchor.
type TrackerInstance struct {
	ID           uuid.UUID
	TrackerID    uuid.UUID
	TrackingDate time.Time
	PeriodStart  time.Time
	PeriodEnd    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// TaskInstance is the mutable completion record for one task within one
// tracker instance. Snapshot fields are frozen copies taken from the
// originating template at creation time.
type TaskInstance struct {
	ID         uuid.UUID
	InstanceID uuid.UUID
	TemplateID uuid.UUID
	Status     TaskStatus
	Snapshot   TaskSnapshot
	Notes      *string
	// FirstCompletedAt is set on the first transition into DONE and never
	// changes afterwards.
	FirstCompletedAt *time.Time
	// CompletedAt tracks the latest transition into DONE and is cleared
	// when the task leaves DONE.
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// InstanceCompletion is the per-instance completion summary consumed by
// the streak walk: how many snapshot tasks exist and how many are DONE.
type InstanceCompletion struct {
	TrackingDate time.Time
	DoneCount    int
	TotalCount   int
}

// Rate returns the completion rate in percent. Zero tasks yield 0.
func (c InstanceCompletion) Rate() float64 {
	if c.TotalCount == 0 {
		return 0
	}
	return float64(c.DoneCount) / float64(c.TotalCount) * 100
}

// Streak is the result of a streak computation for one tracker.
type Streak struct {
	Current         int
	Longest         int
	LastMeetingDate *time.Time
}
