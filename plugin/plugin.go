// Package plugin defines the plugin system for Blueprint.
// Plugins are notified of lifecycle events (entity created, field updated,
// version committed, etc.) and can react — logging, metrics, search-index
// refresh, generated-code invalidation.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/version"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Entity lifecycle hooks
// ──────────────────────────────────────────────────

// EntityCreated is called after an entity is created.
type EntityCreated interface {
	OnEntityCreated(ctx context.Context, e *entity.Entity) error
}

// EntityUpdated is called after an entity is updated.
type EntityUpdated interface {
	OnEntityUpdated(ctx context.Context, e *entity.Entity) error
}

// EntityDeleted is called after an entity is soft-deleted.
type EntityDeleted interface {
	OnEntityDeleted(ctx context.Context, entityID id.EntityID) error
}

// LockAcquired is called after the advisory lock is taken on an entity.
type LockAcquired interface {
	OnLockAcquired(ctx context.Context, entityID id.EntityID, userID id.UserID) error
}

// LockReleased is called after the advisory lock is cleared on an entity.
type LockReleased interface {
	OnLockReleased(ctx context.Context, entityID id.EntityID) error
}

// ──────────────────────────────────────────────────
// Field lifecycle hooks
// ──────────────────────────────────────────────────

// FieldCreated is called after a field is added to the working copy.
type FieldCreated interface {
	OnFieldCreated(ctx context.Context, f *field.Field) error
}

// FieldUpdated is called after a field of the working copy is updated.
type FieldUpdated interface {
	OnFieldUpdated(ctx context.Context, f *field.Field) error
}

// FieldDeleted is called after a field is removed from the working copy.
type FieldDeleted interface {
	OnFieldDeleted(ctx context.Context, fieldID id.FieldID) error
}

// ──────────────────────────────────────────────────
// Version lifecycle hooks
// ──────────────────────────────────────────────────

// VersionCreated is called after a commit snapshot is produced.
type VersionCreated interface {
	OnVersionCreated(ctx context.Context, v *version.Version) error
}

// ChangesDiscarded is called after a working copy is rolled back to the
// last committed snapshot.
type ChangesDiscarded interface {
	OnChangesDiscarded(ctx context.Context, entityID id.EntityID) error
}

// ──────────────────────────────────────────────────
// Permission lifecycle hooks
// ──────────────────────────────────────────────────

// PermissionUpdated is called after a permission or one of its field
// overrides is changed.
type PermissionUpdated interface {
	OnPermissionUpdated(ctx context.Context, p *permission.Permission) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
