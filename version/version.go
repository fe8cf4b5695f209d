// Package version defines the EntityVersion record and its store interface.
package version

import (
	"time"

	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
)

// CurrentNumber is the sentinel version number of the mutable working copy.
// Exactly one version per entity carries it; committed snapshots are numbered
// from 1 upward.
const CurrentNumber = 0

// Version is one snapshot of an entity's shape. The current version (number
// CurrentNumber) is continuously edited in place; committed versions are
// frozen copies tied to a commit.
type Version struct {
	ID            id.VersionID `json:"id" db:"id"`
	EntityID      id.EntityID  `json:"entity_id" db:"entity_id"`
	VersionNumber int          `json:"version_number" db:"version_number"`
	CommitID      *id.CommitID `json:"commit_id,omitempty" db:"commit_id"`

	// Denormalized naming, copied from the entity at snapshot time.
	Name              string `json:"name" db:"name"`
	DisplayName       string `json:"display_name" db:"display_name"`
	PluralDisplayName string `json:"plural_display_name" db:"plural_display_name"`
	Description       string `json:"description,omitempty" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Fields and Permissions are populated only by contents-loading reads.
	Fields      []*field.Field           `json:"fields,omitempty" db:"-"`
	Permissions []*permission.Permission `json:"permissions,omitempty" db:"-"`
}

// IsCurrent reports whether this is the mutable working copy.
func (v *Version) IsCurrent() bool {
	return v.VersionNumber == CurrentNumber
}

// Clone returns a deep copy of the version, including loaded contents.
func (v *Version) Clone() *Version {
	if v == nil {
		return nil
	}
	cp := *v
	if v.CommitID != nil {
		cid := *v.CommitID
		cp.CommitID = &cid
	}
	if v.Fields != nil {
		cp.Fields = make([]*field.Field, len(v.Fields))
		for i, f := range v.Fields {
			cp.Fields[i] = f.Clone()
		}
	}
	if v.Permissions != nil {
		cp.Permissions = make([]*permission.Permission, len(v.Permissions))
		for i, p := range v.Permissions {
			cp.Permissions[i] = p.Clone()
		}
	}
	return &cp
}
