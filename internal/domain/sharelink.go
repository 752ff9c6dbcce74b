package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShareLink grants access to a tracker through an opaque code with an
// optional use cap and expiry. UseCount is only ever advanced through an
// atomic conditional increment in the repository.
type ShareLink struct {
	ID        uuid.UUID
	TrackerID uuid.UUID
	Code      string
	// MaxUses of 0 means unlimited.
	MaxUses   int
	UseCount  int
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the link has expired relative to now.
func (l *ShareLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}
