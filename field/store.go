package field

import (
	"context"

	"github.com/xraph/blueprint/id"
)

// Store defines persistence operations for entity fields.
type Store interface {
	// CreateField persists a new field.
	CreateField(ctx context.Context, f *Field) error

	// CreateFields persists a batch of fields in one write. Used by the
	// version copy machinery.
	CreateFields(ctx context.Context, fields []*Field) error

	// GetField retrieves a field by row ID.
	GetField(ctx context.Context, fieldID id.FieldID) (*Field, error)

	// GetFieldByName retrieves a field by owning version and name.
	GetFieldByName(ctx context.Context, versionID id.VersionID, name string) (*Field, error)

	// GetFieldByPermanentID retrieves a field by owning version and
	// permanent identity.
	GetFieldByPermanentID(ctx context.Context, versionID id.VersionID, permanentID id.FieldPermanentID) (*Field, error)

	// UpdateField persists changes to a field.
	UpdateField(ctx context.Context, f *Field) error

	// DeleteField removes a field row.
	DeleteField(ctx context.Context, fieldID id.FieldID) error

	// DeleteFieldsByVersion removes every field of a version.
	DeleteFieldsByVersion(ctx context.Context, versionID id.VersionID) error

	// ListFields returns fields matching the filter, ordered by creation time.
	ListFields(ctx context.Context, filter *ListFilter) ([]*Field, error)
}
