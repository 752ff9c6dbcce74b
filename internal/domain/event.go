package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a fire-and-forget notification emitted by the engine when a
// goal is achieved or a streak milestone is crossed. Delivery mechanics
// (push, APNs) live outside the engine.
type Event struct {
	Type       EventType
	UserID     uuid.UUID
	EntityID   uuid.UUID
	Payload    map[string]any
	OccurredAt time.Time
}
