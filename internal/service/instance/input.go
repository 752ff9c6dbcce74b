package instance

import (
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// GetOrCreateInput holds the parameters for resolving an instance for a
// calendar date.
type GetOrCreateInput struct {
	TrackerID uuid.UUID
	Date      time.Time
}

// Validate checks all fields and collects all errors.
func (i *GetOrCreateInput) Validate() error {
	var errs []domain.FieldError

	if i.TrackerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tracker_id", Message: "required"})
	}
	if i.Date.IsZero() {
		errs = append(errs, domain.FieldError{Field: "date", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GenerateRangeInput holds the parameters for backfilling instances over a
// date range.
type GenerateRangeInput struct {
	TrackerID uuid.UUID
	From      time.Time
	To        time.Time
	// MarkMissedForPast initializes tasks of strictly past periods to
	// MISSED instead of TODO, for honest history after an absence.
	MarkMissedForPast bool
}

// Validate checks the basic field shape. The range span cap depends on
// configuration and is enforced by the service.
func (i *GenerateRangeInput) Validate() error {
	var errs []domain.FieldError

	if i.TrackerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tracker_id", Message: "required"})
	}
	if i.From.IsZero() {
		errs = append(errs, domain.FieldError{Field: "from", Message: "required"})
	}
	if i.To.IsZero() {
		errs = append(errs, domain.FieldError{Field: "to", Message: "required"})
	}
	if !i.From.IsZero() && !i.To.IsZero() && i.To.Before(i.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not be before from"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SetTaskStatusInput holds the parameters for moving a task instance to a
// new status.
type SetTaskStatusInput struct {
	TaskID uuid.UUID
	Status domain.TaskStatus
	// Notes, when set, replaces the task's notes in the same write.
	Notes *string
}

// Validate checks all fields and collects all errors.
func (i *SetTaskStatusInput) Validate() error {
	var errs []domain.FieldError

	if i.TaskID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "task_id", Message: "required"})
	}
	if !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unrecognized task status"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListInstancesInput holds the parameters for listing instances with their
// tasks over a date range.
type ListInstancesInput struct {
	TrackerID uuid.UUID
	From      time.Time
	To        time.Time
}

// Validate checks all fields and collects all errors.
func (i *ListInstancesInput) Validate() error {
	var errs []domain.FieldError

	if i.TrackerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tracker_id", Message: "required"})
	}
	if i.From.IsZero() || i.To.IsZero() {
		errs = append(errs, domain.FieldError{Field: "range", Message: "from and to are required"})
	} else if i.To.Before(i.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not be before from"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
