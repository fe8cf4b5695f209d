// Package field defines the EntityField record and its store interface.
package field

import (
	"time"

	"github.com/xraph/blueprint/id"
)

// Field is one field of an entity version. Each copy of a field belongs to
// exactly one version: the row ID and version foreign key change on every
// snapshot copy while PermanentID stays fixed, so permission rules can
// reference "this field" independent of version.
type Field struct {
	ID          id.FieldID          `json:"id" db:"id"`
	PermanentID id.FieldPermanentID `json:"permanent_id" db:"permanent_id"`
	VersionID   id.VersionID        `json:"version_id" db:"version_id"`
	Name        string              `json:"name" db:"name"`
	DisplayName string              `json:"display_name" db:"display_name"`
	DataType    DataType            `json:"data_type" db:"data_type"`
	Properties  map[string]any      `json:"properties,omitempty" db:"properties"`
	Required    bool                `json:"required" db:"required"`
	Searchable  bool                `json:"searchable" db:"searchable"`
	Description string              `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	cp := *f
	if f.Properties != nil {
		cp.Properties = make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			cp.Properties[k] = v
		}
	}
	return &cp
}

// ListFilter contains filters for listing fields.
type ListFilter struct {
	VersionID id.VersionID `json:"version_id,omitempty"`
	Names     []string     `json:"names,omitempty"`
	Search    string       `json:"search,omitempty"`
	Limit     int          `json:"limit,omitempty"`
	Offset    int          `json:"offset,omitempty"`
}
