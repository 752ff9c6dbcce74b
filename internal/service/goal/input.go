package goal

import (
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

const maxTitleLength = 200

// CreateGoalInput holds the parameters for creating a goal.
type CreateGoalInput struct {
	Title       string
	TargetValue float64
	Unit        *string
	StartDate   *time.Time
	TargetDate  *time.Time
	Priority    int
}

// Validate checks the field shape. Target-date-in-the-past is checked by
// the service because it depends on the clock.
func (i *CreateGoalInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(i.Title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}
	if i.TargetValue <= 0 {
		errs = append(errs, domain.FieldError{Field: "target_value", Message: "must be positive"})
	}
	if i.StartDate != nil && i.TargetDate != nil && i.TargetDate.Before(*i.StartDate) {
		errs = append(errs, domain.FieldError{Field: "target_date", Message: "must not be before start_date"})
	}
	if i.Priority < 0 {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateGoalInput holds the parameters for updating a goal. Nil pointers
// leave the corresponding field unchanged.
type UpdateGoalInput struct {
	GoalID      uuid.UUID
	Title       *string
	TargetValue *float64
	Unit        *string
	Status      *domain.GoalStatus
	StartDate   *time.Time
	TargetDate  *time.Time
	Priority    *int
}

// Validate checks all fields and collects all errors.
func (i *UpdateGoalInput) Validate() error {
	var errs []domain.FieldError

	if i.GoalID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "goal_id", Message: "required"})
	}
	if i.Title != nil && *i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must not be empty"})
	}
	if i.Title != nil && len(*i.Title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}
	if i.TargetValue != nil && *i.TargetValue <= 0 {
		errs = append(errs, domain.FieldError{Field: "target_value", Message: "must be positive"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unrecognized goal status"})
	}
	if i.Priority != nil && *i.Priority < 0 {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AttachTemplateInput holds the parameters for linking a template to a goal.
type AttachTemplateInput struct {
	GoalID             uuid.UUID
	TemplateID         uuid.UUID
	ContributionWeight float64
}

// Validate checks all fields and collects all errors.
func (i *AttachTemplateInput) Validate() error {
	var errs []domain.FieldError

	if i.GoalID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "goal_id", Message: "required"})
	}
	if i.TemplateID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "template_id", Message: "required"})
	}
	if i.ContributionWeight <= 0 {
		errs = append(errs, domain.FieldError{Field: "contribution_weight", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
