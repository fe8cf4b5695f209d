// Package audit defines the mutation change-log Entry record.
package audit

import (
	"time"

	"github.com/xraph/blueprint/id"
)

// Operation identifies the kind of mutation recorded.
type Operation string

// Recorded operations.
const (
	OpEntityCreated    Operation = "entity.created"
	OpEntityUpdated    Operation = "entity.updated"
	OpEntityDeleted    Operation = "entity.deleted"
	OpLockAcquired     Operation = "entity.lock_acquired"
	OpLockReleased     Operation = "entity.lock_released"
	OpFieldCreated     Operation = "field.created"
	OpFieldUpdated     Operation = "field.updated"
	OpFieldDeleted     Operation = "field.deleted"
	OpVersionCreated   Operation = "version.created"
	OpChangesDiscarded Operation = "version.changes_discarded"
	OpPermissionSet    Operation = "permission.updated"
)

// Entry is a single change-log record. Entries are written after the
// mutation they describe; a failed append never fails the operation.
type Entry struct {
	ID        id.ChangeID    `json:"id" db:"id"`
	AppID     id.AppID       `json:"app_id" db:"app_id"`
	EntityID  id.EntityID    `json:"entity_id" db:"entity_id"`
	UserID    id.UserID      `json:"user_id" db:"user_id"`
	Operation Operation      `json:"operation" db:"operation"`
	Detail    string         `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty" db:"metadata"`
}

// QueryFilter contains filters for querying change-log entries.
type QueryFilter struct {
	AppID     id.AppID    `json:"app_id,omitempty"`
	EntityID  id.EntityID `json:"entity_id,omitempty"`
	UserID    id.UserID   `json:"user_id,omitempty"`
	Operation Operation   `json:"operation,omitempty"`
	After     *time.Time  `json:"after,omitempty"`
	Before    *time.Time  `json:"before,omitempty"`
	Limit     int         `json:"limit,omitempty"`
	Offset    int         `json:"offset,omitempty"`
}
