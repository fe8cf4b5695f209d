package version

import (
	"context"

	"github.com/xraph/blueprint/id"
)

// Store defines persistence operations for entity versions.
type Store interface {
	// CreateVersion persists a new version row (without contents).
	CreateVersion(ctx context.Context, v *Version) error

	// GetVersion retrieves a version by ID, without contents.
	GetVersion(ctx context.Context, versionID id.VersionID) (*Version, error)

	// GetVersionWithContents retrieves a version together with its full
	// subtree: fields, permissions, permission roles, and permission fields.
	GetVersionWithContents(ctx context.Context, versionID id.VersionID) (*Version, error)

	// GetCurrentVersion retrieves the working-copy version of an entity.
	GetCurrentVersion(ctx context.Context, entityID id.EntityID) (*Version, error)

	// UpdateVersion persists changes to a version row.
	UpdateVersion(ctx context.Context, v *Version) error

	// ListVersions returns all versions of an entity ordered by
	// version number ascending (the current version sorts first).
	ListVersions(ctx context.Context, entityID id.EntityID) ([]*Version, error)
}
