package permission

import (
	"context"

	"github.com/xraph/blueprint/id"
)

// Store defines persistence operations for entity permissions and their
// per-field overrides.
type Store interface {
	// CreatePermissions persists a batch of permissions in one write,
	// including their roles and permission fields. Used by default seeding
	// and the version copy machinery.
	CreatePermissions(ctx context.Context, perms []*Permission) error

	// GetPermission retrieves the permission for one (version, action) pair,
	// with roles and permission fields loaded.
	GetPermission(ctx context.Context, versionID id.VersionID, action Action) (*Permission, error)

	// ListPermissions returns all permissions of a version with roles and
	// permission fields loaded, ordered by action.
	ListPermissions(ctx context.Context, versionID id.VersionID) ([]*Permission, error)

	// UpdatePermission persists changes to a permission row (its type).
	UpdatePermission(ctx context.Context, p *Permission) error

	// SetPermissionRoles replaces the role set of a permission.
	SetPermissionRoles(ctx context.Context, permID id.PermissionID, roles []id.RoleID) error

	// DeletePermissionsByVersion removes every permission of a version,
	// cascading to roles and permission fields.
	DeletePermissionsByVersion(ctx context.Context, versionID id.VersionID) error

	// CreatePermissionField persists a new permission field.
	CreatePermissionField(ctx context.Context, pf *PermissionField) error

	// FindPermissionFields returns the permission fields of a version scoped
	// to one action/field pair, with roles loaded.
	FindPermissionFields(ctx context.Context, versionID id.VersionID, action Action, fieldPermanentID id.FieldPermanentID) ([]*PermissionField, error)

	// SetPermissionFieldRoles replaces the role set of a permission field.
	SetPermissionFieldRoles(ctx context.Context, pfID id.PermissionFieldID, roles []id.RoleID) error

	// DeletePermissionField removes a permission field by ID.
	DeletePermissionField(ctx context.Context, pfID id.PermissionFieldID) error
}
