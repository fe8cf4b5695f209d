// Package blueprint is the versioned data-modeling core of the Forge
// app-generation stack. It manages entities (user-defined schema objects),
// their fields and role-based permissions, and tracks every change to an
// entity as an append-only sequence of immutable versions — one of which,
// the current version, is always the mutable working copy.
//
//	eng, err := blueprint.NewEngine(
//	    blueprint.WithStore(memStore),
//	)
//	ent, err := eng.CreateEntity(ctx, &blueprint.CreateEntityInput{
//	    AppID:             appID,
//	    Name:              "Customer",
//	    DisplayName:       "Customer",
//	    PluralDisplayName: "Customers",
//	}, userID)
//
// Committing an entity (CreateVersion) freezes the working copy into a new
// numbered snapshot; DiscardPendingChanges rolls the working copy back to
// the last snapshot. Entity locks are advisory metadata for UI display, not
// a mutual-exclusion primitive.
package blueprint

import (
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
)

// CreateEntityInput carries the caller-supplied attributes of a new entity.
type CreateEntityInput struct {
	AppID             id.AppID `json:"app_id"`
	Name              string   `json:"name"`
	DisplayName       string   `json:"display_name"`
	PluralDisplayName string   `json:"plural_display_name"`
	Description       string   `json:"description,omitempty"`
}

// UpdateEntityInput carries the mutable attributes of an entity update.
type UpdateEntityInput struct {
	Name              string `json:"name"`
	DisplayName       string `json:"display_name"`
	PluralDisplayName string `json:"plural_display_name"`
	Description       string `json:"description,omitempty"`
}

// CreateFieldInput carries the caller-supplied attributes of a new field.
// The owning version is always resolved to the entity's current version;
// callers cannot attach fields to snapshots.
type CreateFieldInput struct {
	EntityID    id.EntityID    `json:"entity_id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	DataType    field.DataType `json:"data_type"`
	Properties  map[string]any `json:"properties,omitempty"`
	Required    bool           `json:"required"`
	Searchable  bool           `json:"searchable"`
	Description string         `json:"description,omitempty"`
}

// UpdateFieldInput carries the mutable attributes of a field update.
type UpdateFieldInput struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	DataType    field.DataType `json:"data_type"`
	Properties  map[string]any `json:"properties,omitempty"`
	Required    bool           `json:"required"`
	Searchable  bool           `json:"searchable"`
	Description string         `json:"description,omitempty"`
}

// PermissionFieldRef addresses one permission field by its logical key:
// the entity, the action, and the target field's permanent identity.
type PermissionFieldRef struct {
	EntityID         id.EntityID         `json:"entity_id"`
	Action           permission.Action   `json:"action"`
	FieldPermanentID id.FieldPermanentID `json:"field_permanent_id"`
}
