package plugin

import (
	"context"
	"log/slog"

	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/version"
)

// Named entry types pair a hook with the plugin name for logging.

type entityCreatedEntry struct {
	name string
	hook EntityCreated
}
type entityUpdatedEntry struct {
	name string
	hook EntityUpdated
}
type entityDeletedEntry struct {
	name string
	hook EntityDeleted
}
type lockAcquiredEntry struct {
	name string
	hook LockAcquired
}
type lockReleasedEntry struct {
	name string
	hook LockReleased
}
type fieldCreatedEntry struct {
	name string
	hook FieldCreated
}
type fieldUpdatedEntry struct {
	name string
	hook FieldUpdated
}
type fieldDeletedEntry struct {
	name string
	hook FieldDeleted
}
type versionCreatedEntry struct {
	name string
	hook VersionCreated
}
type changesDiscardedEntry struct {
	name string
	hook ChangesDiscarded
}
type permissionUpdatedEntry struct {
	name string
	hook PermissionUpdated
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	entityCreated     []entityCreatedEntry
	entityUpdated     []entityUpdatedEntry
	entityDeleted     []entityDeletedEntry
	lockAcquired      []lockAcquiredEntry
	lockReleased      []lockReleasedEntry
	fieldCreated      []fieldCreatedEntry
	fieldUpdated      []fieldUpdatedEntry
	fieldDeleted      []fieldDeletedEntry
	versionCreated    []versionCreatedEntry
	changesDiscarded  []changesDiscardedEntry
	permissionUpdated []permissionUpdatedEntry
	shutdown          []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(EntityCreated); ok {
		r.entityCreated = append(r.entityCreated, entityCreatedEntry{name, h})
	}
	if h, ok := p.(EntityUpdated); ok {
		r.entityUpdated = append(r.entityUpdated, entityUpdatedEntry{name, h})
	}
	if h, ok := p.(EntityDeleted); ok {
		r.entityDeleted = append(r.entityDeleted, entityDeletedEntry{name, h})
	}
	if h, ok := p.(LockAcquired); ok {
		r.lockAcquired = append(r.lockAcquired, lockAcquiredEntry{name, h})
	}
	if h, ok := p.(LockReleased); ok {
		r.lockReleased = append(r.lockReleased, lockReleasedEntry{name, h})
	}
	if h, ok := p.(FieldCreated); ok {
		r.fieldCreated = append(r.fieldCreated, fieldCreatedEntry{name, h})
	}
	if h, ok := p.(FieldUpdated); ok {
		r.fieldUpdated = append(r.fieldUpdated, fieldUpdatedEntry{name, h})
	}
	if h, ok := p.(FieldDeleted); ok {
		r.fieldDeleted = append(r.fieldDeleted, fieldDeletedEntry{name, h})
	}
	if h, ok := p.(VersionCreated); ok {
		r.versionCreated = append(r.versionCreated, versionCreatedEntry{name, h})
	}
	if h, ok := p.(ChangesDiscarded); ok {
		r.changesDiscarded = append(r.changesDiscarded, changesDiscardedEntry{name, h})
	}
	if h, ok := p.(PermissionUpdated); ok {
		r.permissionUpdated = append(r.permissionUpdated, permissionUpdatedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Entity event emitters
// ──────────────────────────────────────────────────

// EmitEntityCreated notifies all plugins that implement EntityCreated.
func (r *Registry) EmitEntityCreated(ctx context.Context, e *entity.Entity) {
	for _, en := range r.entityCreated {
		if err := en.hook.OnEntityCreated(ctx, e); err != nil {
			r.logHookError("OnEntityCreated", en.name, err)
		}
	}
}

// EmitEntityUpdated notifies all plugins that implement EntityUpdated.
func (r *Registry) EmitEntityUpdated(ctx context.Context, e *entity.Entity) {
	for _, en := range r.entityUpdated {
		if err := en.hook.OnEntityUpdated(ctx, e); err != nil {
			r.logHookError("OnEntityUpdated", en.name, err)
		}
	}
}

// EmitEntityDeleted notifies all plugins that implement EntityDeleted.
func (r *Registry) EmitEntityDeleted(ctx context.Context, entityID id.EntityID) {
	for _, en := range r.entityDeleted {
		if err := en.hook.OnEntityDeleted(ctx, entityID); err != nil {
			r.logHookError("OnEntityDeleted", en.name, err)
		}
	}
}

// EmitLockAcquired notifies all plugins that implement LockAcquired.
func (r *Registry) EmitLockAcquired(ctx context.Context, entityID id.EntityID, userID id.UserID) {
	for _, en := range r.lockAcquired {
		if err := en.hook.OnLockAcquired(ctx, entityID, userID); err != nil {
			r.logHookError("OnLockAcquired", en.name, err)
		}
	}
}

// EmitLockReleased notifies all plugins that implement LockReleased.
func (r *Registry) EmitLockReleased(ctx context.Context, entityID id.EntityID) {
	for _, en := range r.lockReleased {
		if err := en.hook.OnLockReleased(ctx, entityID); err != nil {
			r.logHookError("OnLockReleased", en.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Field event emitters
// ──────────────────────────────────────────────────

// EmitFieldCreated notifies all plugins that implement FieldCreated.
func (r *Registry) EmitFieldCreated(ctx context.Context, f *field.Field) {
	for _, en := range r.fieldCreated {
		if err := en.hook.OnFieldCreated(ctx, f); err != nil {
			r.logHookError("OnFieldCreated", en.name, err)
		}
	}
}

// EmitFieldUpdated notifies all plugins that implement FieldUpdated.
func (r *Registry) EmitFieldUpdated(ctx context.Context, f *field.Field) {
	for _, en := range r.fieldUpdated {
		if err := en.hook.OnFieldUpdated(ctx, f); err != nil {
			r.logHookError("OnFieldUpdated", en.name, err)
		}
	}
}

// EmitFieldDeleted notifies all plugins that implement FieldDeleted.
func (r *Registry) EmitFieldDeleted(ctx context.Context, fieldID id.FieldID) {
	for _, en := range r.fieldDeleted {
		if err := en.hook.OnFieldDeleted(ctx, fieldID); err != nil {
			r.logHookError("OnFieldDeleted", en.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Version event emitters
// ──────────────────────────────────────────────────

// EmitVersionCreated notifies all plugins that implement VersionCreated.
func (r *Registry) EmitVersionCreated(ctx context.Context, v *version.Version) {
	for _, en := range r.versionCreated {
		if err := en.hook.OnVersionCreated(ctx, v); err != nil {
			r.logHookError("OnVersionCreated", en.name, err)
		}
	}
}

// EmitChangesDiscarded notifies all plugins that implement ChangesDiscarded.
func (r *Registry) EmitChangesDiscarded(ctx context.Context, entityID id.EntityID) {
	for _, en := range r.changesDiscarded {
		if err := en.hook.OnChangesDiscarded(ctx, entityID); err != nil {
			r.logHookError("OnChangesDiscarded", en.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Permission event emitters
// ──────────────────────────────────────────────────

// EmitPermissionUpdated notifies all plugins that implement PermissionUpdated.
func (r *Registry) EmitPermissionUpdated(ctx context.Context, p *permission.Permission) {
	for _, en := range r.permissionUpdated {
		if err := en.hook.OnPermissionUpdated(ctx, p); err != nil {
			r.logHookError("OnPermissionUpdated", en.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Shutdown emitter
// ──────────────────────────────────────────────────

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, en := range r.shutdown {
		if err := en.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", en.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the pipeline.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
