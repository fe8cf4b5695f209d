package blueprint

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/naming"
	"github.com/xraph/blueprint/version"
)

// GetEntity retrieves an entity by ID. Soft-deleted entities are returned;
// callers that need live entities only should check DeletedAt.
func (e *Engine) GetEntity(ctx context.Context, entityID id.EntityID) (*entity.Entity, error) {
	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	return ent, nil
}

// FindEntity returns the first entity matching the filter, or nil when
// nothing matches.
func (e *Engine) FindEntity(ctx context.Context, filter *entity.ListFilter) (*entity.Entity, error) {
	ent, err := e.store.FindEntity(ctx, filter)
	if err != nil {
		return nil, nil //nolint:nilnil // absence is not an error for find-first
	}
	return ent, nil
}

// ListEntities returns entities matching the filter.
func (e *Engine) ListEntities(ctx context.Context, filter *entity.ListFilter) ([]*entity.Entity, error) {
	return e.store.ListEntities(ctx, filter)
}

// CreateEntity creates a new entity with its working-copy version and the
// open default permission set.
func (e *Engine) CreateEntity(ctx context.Context, input *CreateEntityInput, userID id.UserID) (*entity.Entity, error) {
	if !naming.IsValid(input.Name) {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidName, input.Name, naming.ValidationMessage)
	}

	existing, err := e.store.FindEntity(ctx, &entity.ListFilter{
		AppID: input.AppID,
		Name:  input.Name,
	})
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: entity %q already exists in app %s", ErrNameTaken, input.Name, input.AppID)
	}

	now := time.Now().UTC()
	ent := &entity.Entity{
		ID:                id.NewEntityID(),
		AppID:             input.AppID,
		Name:              input.Name,
		DisplayName:       input.DisplayName,
		PluralDisplayName: input.PluralDisplayName,
		Description:       input.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := e.store.CreateEntity(ctx, ent); err != nil {
		return nil, err
	}

	current := &version.Version{
		ID:                id.NewVersionID(),
		EntityID:          ent.ID,
		VersionNumber:     version.CurrentNumber,
		Name:              ent.Name,
		DisplayName:       ent.DisplayName,
		PluralDisplayName: ent.PluralDisplayName,
		Description:       ent.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := e.store.CreateVersion(ctx, current); err != nil {
		return nil, err
	}

	if err := e.store.CreatePermissions(ctx, defaultPermissions(current.ID)); err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(ctx, ent.ID, current.ID)
	}
	if e.plugins != nil {
		e.plugins.EmitEntityCreated(ctx, ent)
	}
	e.recordChange(ctx, ent.ID, userID, audit.OpEntityCreated, ent.Name)

	return ent, nil
}

// CreateDefaultEntities seeds the platform-defined entities for a new app:
// the built-in user entity with its authentication fields. Seeded fields
// bypass the system-data-type guard; they are exactly the fields that guard
// exists to protect.
func (e *Engine) CreateDefaultEntities(ctx context.Context, appID id.AppID, userID id.UserID) ([]*entity.Entity, error) {
	if !e.config.seedEnabled() {
		return nil, nil
	}

	templates := DefaultEntities()
	entities := make([]*entity.Entity, 0, len(templates))
	for _, tmpl := range templates {
		ent, err := e.CreateEntity(ctx, &CreateEntityInput{
			AppID:             appID,
			Name:              tmpl.Name,
			DisplayName:       tmpl.DisplayName,
			PluralDisplayName: tmpl.PluralDisplayName,
			Description:       tmpl.Description,
		}, userID)
		if err != nil {
			return nil, err
		}

		currentID, err := e.currentVersionID(ctx, ent.ID)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		fields := make([]*field.Field, 0, len(tmpl.Fields))
		for _, ft := range tmpl.Fields {
			fields = append(fields, &field.Field{
				ID:          id.NewFieldID(),
				PermanentID: id.NewFieldPermanentID(),
				VersionID:   currentID,
				Name:        ft.Name,
				DisplayName: ft.DisplayName,
				DataType:    ft.DataType,
				Properties:  ft.Properties,
				Required:    ft.Required,
				Searchable:  ft.Searchable,
				Description: ft.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if err := e.store.CreateFields(ctx, fields); err != nil {
			return nil, err
		}

		entities = append(entities, ent)
	}
	return entities, nil
}

// UpdateEntity updates an entity's naming attributes, mirroring them onto
// the working-copy version.
func (e *Engine) UpdateEntity(ctx context.Context, entityID id.EntityID, input *UpdateEntityInput) (*entity.Entity, error) {
	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	if !naming.IsValid(input.Name) {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidName, input.Name, naming.ValidationMessage)
	}

	ent.Name = input.Name
	ent.DisplayName = input.DisplayName
	ent.PluralDisplayName = input.PluralDisplayName
	ent.Description = input.Description
	ent.UpdatedAt = time.Now().UTC()
	if err := e.store.UpdateEntity(ctx, ent); err != nil {
		return nil, err
	}

	current, err := e.store.GetCurrentVersion(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: entity %s has no current version", ErrVersionNotFound, entityID)
	}
	current.Name = ent.Name
	current.DisplayName = ent.DisplayName
	current.PluralDisplayName = ent.PluralDisplayName
	current.Description = ent.Description
	current.UpdatedAt = ent.UpdatedAt
	if err := e.store.UpdateVersion(ctx, current); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitEntityUpdated(ctx, ent)
	}
	e.recordChange(ctx, ent.ID, id.Nil, audit.OpEntityUpdated, ent.Name)

	return ent, nil
}

// DeleteEntity soft-deletes an entity: the naming attributes are mangled so
// the original name becomes reusable, and DeletedAt is set. The version
// history is retained.
func (e *Engine) DeleteEntity(ctx context.Context, entityID id.EntityID, userID id.UserID) (*entity.Entity, error) {
	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}

	originalName := ent.Name
	now := time.Now().UTC()
	ent.Name = naming.PrepareDeletedItemName(ent.Name, ent.ID)
	ent.DisplayName = naming.PrepareDeletedItemName(ent.DisplayName, ent.ID)
	ent.PluralDisplayName = naming.PrepareDeletedItemName(ent.PluralDisplayName, ent.ID)
	ent.DeletedAt = &now
	ent.UpdatedAt = now
	if err := e.store.UpdateEntity(ctx, ent); err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Invalidate(ctx, ent.ID)
	}
	if e.plugins != nil {
		e.plugins.EmitEntityDeleted(ctx, ent.ID)
	}
	e.recordChange(ctx, ent.ID, userID, audit.OpEntityDeleted, originalName)

	return ent, nil
}

// AcquireLock records the advisory lock on an entity for a user. The lock
// is last-writer-wins metadata for UI display; acquiring over another
// user's lock simply overwrites the owner and time.
func (e *Engine) AcquireLock(ctx context.Context, entityID id.EntityID, userID id.UserID) (*entity.Entity, error) {
	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil || ent.DeletedAt != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}

	now := time.Now().UTC()
	ent.LockedByUserID = &userID
	ent.LockedAt = &now
	if err := e.store.UpdateEntity(ctx, ent); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitLockAcquired(ctx, ent.ID, userID)
	}
	e.recordChange(ctx, ent.ID, userID, audit.OpLockAcquired, "")

	return ent, nil
}

// ReleaseLock clears the advisory lock unconditionally.
func (e *Engine) ReleaseLock(ctx context.Context, entityID id.EntityID) (*entity.Entity, error) {
	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}

	ent.LockedByUserID = nil
	ent.LockedAt = nil
	if err := e.store.UpdateEntity(ctx, ent); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitLockReleased(ctx, ent.ID)
	}
	e.recordChange(ctx, ent.ID, id.Nil, audit.OpLockReleased, "")

	return ent, nil
}

// IsEntityInSameApp reports whether every given entity exists, is not
// deleted, and belongs to the app. The second return value lists the IDs
// that failed the check.
func (e *Engine) IsEntityInSameApp(ctx context.Context, appID id.AppID, entityIDs ...id.EntityID) (bool, []id.EntityID, error) {
	var missing []id.EntityID
	for _, entityID := range entityIDs {
		ent, err := e.store.GetEntity(ctx, entityID)
		if err != nil || ent.DeletedAt != nil || ent.AppID != appID {
			missing = append(missing, entityID)
		}
	}
	return len(missing) == 0, missing, nil
}
