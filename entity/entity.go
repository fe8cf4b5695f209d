// Package entity defines the Entity record and its store interface.
package entity

import (
	"time"

	"github.com/xraph/blueprint/id"
)

// Entity is a named, user-owned schema object — the unit the platform
// generates database tables and CRUD surfaces from. Its editable shape lives
// on the current version; the entity row itself carries naming, soft-delete
// state, and the advisory lock.
//
// The lock is display metadata, not a mutex: re-acquisition by another user
// overwrites the owner. Write-write races on the current version are left to
// the store's row-level semantics.
type Entity struct {
	ID                id.EntityID `json:"id" db:"id"`
	AppID             id.AppID    `json:"app_id" db:"app_id"`
	Name              string      `json:"name" db:"name"`
	DisplayName       string      `json:"display_name" db:"display_name"`
	PluralDisplayName string      `json:"plural_display_name" db:"plural_display_name"`
	Description       string      `json:"description,omitempty" db:"description"`
	LockedByUserID    *id.UserID  `json:"locked_by_user_id,omitempty" db:"locked_by_user_id"`
	LockedAt          *time.Time  `json:"locked_at,omitempty" db:"locked_at"`
	DeletedAt         *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	cp := *e
	if e.LockedByUserID != nil {
		v := *e.LockedByUserID
		cp.LockedByUserID = &v
	}
	if e.LockedAt != nil {
		v := *e.LockedAt
		cp.LockedAt = &v
	}
	if e.DeletedAt != nil {
		v := *e.DeletedAt
		cp.DeletedAt = &v
	}
	return &cp
}

// IsLocked reports whether the advisory lock is held.
func (e *Entity) IsLocked() bool {
	return e.LockedByUserID != nil
}

// ListFilter contains filters for listing entities. Deleted entities are
// excluded unless IncludeDeleted is set.
type ListFilter struct {
	AppID          id.AppID `json:"app_id,omitempty"`
	Name           string   `json:"name,omitempty"`
	Search         string   `json:"search,omitempty"`
	IncludeDeleted bool     `json:"include_deleted,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Offset         int      `json:"offset,omitempty"`
}
