// Package permission defines the EntityPermission and EntityPermissionField
// records and their store interface.
package permission

import (
	"time"

	"github.com/xraph/blueprint/id"
)

// Action is an operation a permission governs on an entity.
type Action string

// Actions, one permission row per (version, action) pair.
const (
	ActionView   Action = "View"
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
	ActionDelete Action = "Delete"
	ActionSearch Action = "Search"
)

// Actions returns every action in declaration order.
func Actions() []Action {
	return []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionSearch}
}

// Type describes how a permission grants its action.
type Type string

// Permission grant types.
const (
	TypeAllRoles Type = "AllRoles"
	TypeGranular Type = "Granular"
	TypeDisabled Type = "Disabled"
	TypePublic   Type = "Public"
)

// Permission governs whether and how one action is permitted on one entity
// version. Roles bind the grant to specific app roles when Type is Granular;
// Fields narrow access per field.
type Permission struct {
	ID        id.PermissionID `json:"id" db:"id"`
	VersionID id.VersionID    `json:"version_id" db:"version_id"`
	Action    Action          `json:"action" db:"action"`
	Type      Type            `json:"type" db:"type"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`

	Roles  []id.RoleID        `json:"roles,omitempty" db:"-"`
	Fields []*PermissionField `json:"fields,omitempty" db:"-"`
}

// Clone returns a deep copy of the permission.
func (p *Permission) Clone() *Permission {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Roles != nil {
		cp.Roles = make([]id.RoleID, len(p.Roles))
		copy(cp.Roles, p.Roles)
	}
	if p.Fields != nil {
		cp.Fields = make([]*PermissionField, len(p.Fields))
		for i, f := range p.Fields {
			cp.Fields[i] = f.Clone()
		}
	}
	return &cp
}

// PermissionField is a per-field override of a permission. The target field
// is referenced by permanent ID so the override survives version copies; the
// version ID scopes lookups to one snapshot.
type PermissionField struct {
	ID               id.PermissionFieldID `json:"id" db:"id"`
	PermissionID     id.PermissionID      `json:"permission_id" db:"permission_id"`
	FieldPermanentID id.FieldPermanentID  `json:"field_permanent_id" db:"field_permanent_id"`
	VersionID        id.VersionID         `json:"version_id" db:"version_id"`
	CreatedAt        time.Time            `json:"created_at" db:"created_at"`

	Roles []id.RoleID `json:"roles,omitempty" db:"-"`
}

// Clone returns a deep copy of the permission field.
func (f *PermissionField) Clone() *PermissionField {
	if f == nil {
		return nil
	}
	cp := *f
	if f.Roles != nil {
		cp.Roles = make([]id.RoleID, len(f.Roles))
		copy(cp.Roles, f.Roles)
	}
	return &cp
}
