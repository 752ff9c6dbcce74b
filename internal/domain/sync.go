package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClientChange is one offline-queued mutation sent by a device. Fields is
// a field-group payload restricted to the writable whitelist of the
// entity type; ClientTime is the device-observed mutation time used for
// last-writer-wins resolution.
type ClientChange struct {
	EntityType SyncEntityType
	EntityID   uuid.UUID
	Fields     map[string]any
	ClientTime time.Time
}

// SyncConflict records a client change that lost against newer server
// state. It is a first-class result entry, never an error: the server's
// current values are returned so the device can reconcile its UI.
type SyncConflict struct {
	EntityType  SyncEntityType
	EntityID    uuid.UUID
	Reason      string
	ServerState map[string]any
	ServerTime  time.Time
}

// EntityChange is a server-side row that changed since the device's last
// sync, returned so the device can update its local copy.
type EntityChange struct {
	EntityType SyncEntityType
	EntityID   uuid.UUID
	State      map[string]any
	UpdatedAt  time.Time
	Deleted    bool
}

// SyncResult is the outcome of one reconcile call.
type SyncResult struct {
	Applied          []ClientChange
	Conflicts        []SyncConflict
	ServerChanges    []EntityChange
	NewSyncTimestamp time.Time
}
