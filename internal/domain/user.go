package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an application user. Authentication lives outside the
// engine; the engine only scopes data by owner.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserPreferences holds the per-user knobs the engine reads: the streak
// completion threshold (percent), the weekday a week starts on (0=Sunday)
// and the IANA timezone used for day boundaries.
type UserPreferences struct {
	UserID          uuid.UUID
	StreakThreshold int
	WeekStart       int
	Timezone        string
	UpdatedAt       time.Time
}

// DefaultUserPreferences returns UserPreferences with engine defaults.
func DefaultUserPreferences(userID uuid.UUID) UserPreferences {
	return UserPreferences{
		UserID:          userID,
		StreakThreshold: 80,
		WeekStart:       0,
		Timezone:        "UTC",
	}
}
