package tracker

import (
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

const maxNameLength = 200

// CreateTrackerInput holds the parameters for creating a tracker.
type CreateTrackerInput struct {
	Name         string
	TimeMode     domain.TimeMode
	GoalPeriod   *string
	GoalStartDay int
}

// Validate checks all fields and collects all errors.
func (i *CreateTrackerInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(i.Name) > maxNameLength {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if !i.TimeMode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "time_mode", Message: "must be DAILY, WEEKLY, or MONTHLY"})
	}
	if i.GoalStartDay < 0 || i.GoalStartDay > 31 {
		errs = append(errs, domain.FieldError{Field: "goal_start_day", Message: "must be between 0 and 31"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateTrackerInput holds the parameters for updating a tracker.
// Nil pointers leave the corresponding field unchanged.
type UpdateTrackerInput struct {
	TrackerID    uuid.UUID
	Name         *string
	Status       *domain.TrackerStatus
	GoalPeriod   *string
	GoalStartDay *int
}

// Validate checks all fields and collects all errors.
func (i *UpdateTrackerInput) Validate() error {
	var errs []domain.FieldError

	if i.TrackerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tracker_id", Message: "required"})
	}
	if i.Name != nil && *i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
	}
	if i.Name != nil && len(*i.Name) > maxNameLength {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be ACTIVE, PAUSED, or ARCHIVED"})
	}
	if i.GoalStartDay != nil && (*i.GoalStartDay < 0 || *i.GoalStartDay > 31) {
		errs = append(errs, domain.FieldError{Field: "goal_start_day", Message: "must be between 0 and 31"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateTemplateInput holds the parameters for adding a task template.
type CreateTemplateInput struct {
	TrackerID     uuid.UUID
	Description   string
	Category      *string
	Weight        int
	Points        int
	IncludeInGoal bool
	TimeOfDay     *string
}

// Validate checks all fields and collects all errors.
func (i *CreateTemplateInput) Validate() error {
	var errs []domain.FieldError

	if i.TrackerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tracker_id", Message: "required"})
	}
	if i.Description == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "required"})
	}
	if i.Weight < 1 || i.Weight > 10 {
		errs = append(errs, domain.FieldError{Field: "weight", Message: "must be between 1 and 10"})
	}
	if i.Points < 0 {
		errs = append(errs, domain.FieldError{Field: "points", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateTemplateInput holds the parameters for updating a task template.
// Nil pointers leave the corresponding field unchanged.
type UpdateTemplateInput struct {
	TemplateID    uuid.UUID
	Description   *string
	Category      *string
	Weight        *int
	Points        *int
	IncludeInGoal *bool
	TimeOfDay     *string
}

// Validate checks all fields and collects all errors.
func (i *UpdateTemplateInput) Validate() error {
	var errs []domain.FieldError

	if i.TemplateID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "template_id", Message: "required"})
	}
	if i.Description != nil && *i.Description == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must not be empty"})
	}
	if i.Weight != nil && (*i.Weight < 1 || *i.Weight > 10) {
		errs = append(errs, domain.FieldError{Field: "weight", Message: "must be between 1 and 10"})
	}
	if i.Points != nil && *i.Points < 0 {
		errs = append(errs, domain.FieldError{Field: "points", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateShareLinkInput holds the parameters for creating a share link.
type CreateShareLinkInput struct {
	TrackerID uuid.UUID
	MaxUses   int
	ExpiresAt *time.Time
}

// Validate checks all fields and collects all errors.
func (i *CreateShareLinkInput) Validate() error {
	var errs []domain.FieldError

	if i.TrackerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tracker_id", Message: "required"})
	}
	if i.MaxUses < 0 {
		errs = append(errs, domain.FieldError{Field: "max_uses", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdatePreferencesInput holds the parameters for saving user preferences.
type UpdatePreferencesInput struct {
	StreakThreshold int
	WeekStart       int
	Timezone        string
}

// Validate checks all fields and collects all errors.
func (i *UpdatePreferencesInput) Validate() error {
	var errs []domain.FieldError

	if i.StreakThreshold < 1 || i.StreakThreshold > 100 {
		errs = append(errs, domain.FieldError{Field: "streak_threshold", Message: "must be between 1 and 100"})
	}
	if i.WeekStart < 0 || i.WeekStart > 6 {
		errs = append(errs, domain.FieldError{Field: "week_start", Message: "must be between 0 and 6"})
	}
	if i.Timezone == "" {
		errs = append(errs, domain.FieldError{Field: "timezone", Message: "required"})
	} else if _, err := time.LoadLocation(i.Timezone); err != nil {
		errs = append(errs, domain.FieldError{Field: "timezone", Message: "unknown IANA timezone"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
