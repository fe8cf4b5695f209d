package blueprint

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
)

// GetPermissions returns the working-copy permission set of an entity, one
// permission per action with roles and field overrides loaded.
func (e *Engine) GetPermissions(ctx context.Context, entityID id.EntityID) ([]*permission.Permission, error) {
	currentID, err := e.currentVersionID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return e.store.ListPermissions(ctx, currentID)
}

// UpdatePermission changes the type of one action's permission on the
// working copy.
func (e *Engine) UpdatePermission(ctx context.Context, entityID id.EntityID, action permission.Action, permType permission.Type, userID id.UserID) (*permission.Permission, error) {
	p, err := e.currentPermission(ctx, entityID, action)
	if err != nil {
		return nil, err
	}

	p.Type = permType
	p.UpdatedAt = time.Now().UTC()
	if err := e.store.UpdatePermission(ctx, p); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitPermissionUpdated(ctx, p)
	}
	e.recordChange(ctx, entityID, userID, audit.OpPermissionSet, fmt.Sprintf("%s set to %s", action, permType))

	return p, nil
}

// UpdatePermissionRoles replaces the role set of one action's permission on
// the working copy.
func (e *Engine) UpdatePermissionRoles(ctx context.Context, entityID id.EntityID, action permission.Action, roles []id.RoleID, userID id.UserID) (*permission.Permission, error) {
	p, err := e.currentPermission(ctx, entityID, action)
	if err != nil {
		return nil, err
	}

	if err := e.store.SetPermissionRoles(ctx, p.ID, roles); err != nil {
		return nil, err
	}
	p.Roles = roles

	if e.plugins != nil {
		e.plugins.EmitPermissionUpdated(ctx, p)
	}
	e.recordChange(ctx, entityID, userID, audit.OpPermissionSet, fmt.Sprintf("%s roles replaced", action))

	return p, nil
}

// AddPermissionField adds a per-field override to one action's permission
// on the working copy. The target field must exist on the working copy; it
// is referenced by permanent ID so the override survives snapshots.
func (e *Engine) AddPermissionField(ctx context.Context, ref *PermissionFieldRef, userID id.UserID) (*permission.PermissionField, error) {
	currentID, err := e.currentVersionID(ctx, ref.EntityID)
	if err != nil {
		return nil, err
	}

	if _, err := e.store.GetFieldByPermanentID(ctx, currentID, ref.FieldPermanentID); err != nil {
		return nil, fmt.Errorf("%w: no field with permanent ID %s on entity %s", ErrFieldNotFound, ref.FieldPermanentID, ref.EntityID)
	}

	p, err := e.store.GetPermission(ctx, currentID, ref.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: no %s permission on entity %s", ErrPermissionNotFound, ref.Action, ref.EntityID)
	}

	pf := &permission.PermissionField{
		ID:               id.NewPermissionFieldID(),
		PermissionID:     p.ID,
		FieldPermanentID: ref.FieldPermanentID,
		VersionID:        currentID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := e.store.CreatePermissionField(ctx, pf); err != nil {
		return nil, err
	}

	e.recordChange(ctx, ref.EntityID, userID, audit.OpPermissionSet, fmt.Sprintf("%s field override added", ref.Action))

	return pf, nil
}

// UpdatePermissionFieldRoles replaces the role set of a permission field.
func (e *Engine) UpdatePermissionFieldRoles(ctx context.Context, ref *PermissionFieldRef, roles []id.RoleID, userID id.UserID) (*permission.PermissionField, error) {
	pf, err := e.findPermissionField(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := e.store.SetPermissionFieldRoles(ctx, pf.ID, roles); err != nil {
		return nil, err
	}
	pf.Roles = roles

	e.recordChange(ctx, ref.EntityID, userID, audit.OpPermissionSet, fmt.Sprintf("%s field override roles replaced", ref.Action))

	return pf, nil
}

// DeletePermissionField removes a per-field override from the working copy.
// Deletion requires an unambiguous single target: zero or multiple matches
// for the action/field pair fail with a generic not-found error.
func (e *Engine) DeletePermissionField(ctx context.Context, ref *PermissionFieldRef, userID id.UserID) (*permission.PermissionField, error) {
	pf, err := e.findPermissionField(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := e.store.DeletePermissionField(ctx, pf.ID); err != nil {
		return nil, err
	}

	e.recordChange(ctx, ref.EntityID, userID, audit.OpPermissionSet, fmt.Sprintf("%s field override removed", ref.Action))

	return pf, nil
}

// findPermissionField locates the single permission field matching the
// reference on the entity's working copy.
func (e *Engine) findPermissionField(ctx context.Context, ref *PermissionFieldRef) (*permission.PermissionField, error) {
	currentID, err := e.currentVersionID(ctx, ref.EntityID)
	if err != nil {
		return nil, err
	}

	matches, err := e.store.FindPermissionFields(ctx, currentID, ref.Action, ref.FieldPermanentID)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: expected one permission field for action %s, found %d", ErrRecordNotFound, ref.Action, len(matches))
	}
	return matches[0], nil
}

// currentPermission loads one action's permission from an entity's working
// copy.
func (e *Engine) currentPermission(ctx context.Context, entityID id.EntityID, action permission.Action) (*permission.Permission, error) {
	currentID, err := e.currentVersionID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	p, err := e.store.GetPermission(ctx, currentID, action)
	if err != nil {
		return nil, fmt.Errorf("%w: no %s permission on entity %s", ErrPermissionNotFound, action, entityID)
	}
	return p, nil
}
