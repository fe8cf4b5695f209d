package blueprint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/naming"
	"github.com/xraph/blueprint/version"
)

// GetFields returns the working-copy fields of an entity, ordered by
// creation time.
func (e *Engine) GetFields(ctx context.Context, entityID id.EntityID) ([]*field.Field, error) {
	currentID, err := e.currentVersionID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return e.store.ListFields(ctx, &field.ListFilter{VersionID: currentID})
}

// CreateField adds a field to an entity's working copy. System data types
// are rejected; those fields exist only via default entity seeding. The
// field attaches to the current version resolved by lookup, never a
// caller-supplied version, and receives a fresh permanent identity.
func (e *Engine) CreateField(ctx context.Context, entityID id.EntityID, input *CreateFieldInput, userID id.UserID) (*field.Field, error) {
	if input.DataType.IsSystem() {
		return nil, fmt.Errorf("%w: data type %s is reserved and cannot be created", ErrSystemDataType, input.DataType)
	}

	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	if err := e.validateFieldName(ent.Name, input.Name); err != nil {
		return nil, err
	}
	if err := e.validator.Validate(input.DataType, input.Properties); err != nil {
		return nil, err
	}

	currentID, err := e.currentVersionID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if existing, err := e.store.GetFieldByName(ctx, currentID, input.Name); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: field %q already exists on entity %s", ErrNameTaken, input.Name, entityID)
	}

	now := time.Now().UTC()
	f := &field.Field{
		ID:          id.NewFieldID(),
		PermanentID: id.NewFieldPermanentID(),
		VersionID:   currentID,
		Name:        input.Name,
		DisplayName: input.DisplayName,
		DataType:    input.DataType,
		Properties:  input.Properties,
		Required:    input.Required,
		Searchable:  input.Searchable,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.CreateField(ctx, f); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitFieldCreated(ctx, f)
	}
	e.recordChange(ctx, entityID, userID, audit.OpFieldCreated, f.Name)

	return f, nil
}

// UpdateField modifies a working-copy field. Historical fields are
// immutable; edits to a field owned by a committed version are rejected
// citing that version's number. System fields cannot be updated, and the
// update payload cannot switch a field onto a system data type.
func (e *Engine) UpdateField(ctx context.Context, fieldID id.FieldID, input *UpdateFieldInput, userID id.UserID) (*field.Field, error) {
	f, owning, err := e.loadMutableField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	if input.DataType.IsSystem() {
		return nil, fmt.Errorf("%w: data type %s is reserved and cannot be assigned", ErrSystemDataType, input.DataType)
	}

	ent, err := e.store.GetEntity(ctx, owning.EntityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, owning.EntityID)
	}
	if err := e.validateFieldName(ent.Name, input.Name); err != nil {
		return nil, err
	}
	if err := e.validator.Validate(input.DataType, input.Properties); err != nil {
		return nil, err
	}

	f.Name = input.Name
	f.DisplayName = input.DisplayName
	f.DataType = input.DataType
	f.Properties = input.Properties
	f.Required = input.Required
	f.Searchable = input.Searchable
	f.Description = input.Description
	f.UpdatedAt = time.Now().UTC()
	if err := e.store.UpdateField(ctx, f); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitFieldUpdated(ctx, f)
	}
	e.recordChange(ctx, owning.EntityID, userID, audit.OpFieldUpdated, f.Name)

	return f, nil
}

// DeleteField removes a field from the working copy. The same guards as
// UpdateField apply: the field must belong to the current version and must
// not carry a system data type.
func (e *Engine) DeleteField(ctx context.Context, fieldID id.FieldID, userID id.UserID) (*field.Field, error) {
	f, owning, err := e.loadMutableField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	if err := e.store.DeleteField(ctx, f.ID); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitFieldDeleted(ctx, f.ID)
	}
	e.recordChange(ctx, owning.EntityID, userID, audit.OpFieldDeleted, f.Name)

	return f, nil
}

// ValidateAllFieldsExist checks a set of field names against an entity's
// working-copy fields and returns the subset that does not exist. An empty
// result means every requested name is a live field. Duplicates and input
// order are irrelevant.
func (e *Engine) ValidateAllFieldsExist(ctx context.Context, entityID id.EntityID, fieldNames []string) (map[string]struct{}, error) {
	missing := make(map[string]struct{})
	if len(fieldNames) == 0 {
		return missing, nil
	}

	fields, err := e.GetFields(ctx, entityID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		existing[f.Name] = struct{}{}
	}
	for _, name := range fieldNames {
		if _, ok := existing[name]; !ok {
			missing[name] = struct{}{}
		}
	}
	return missing, nil
}

// loadMutableField fetches a field and verifies it is editable: it must
// exist, belong to a current (working-copy) version, and not carry a
// system data type.
func (e *Engine) loadMutableField(ctx context.Context, fieldID id.FieldID) (*field.Field, *version.Version, error) {
	f, err := e.store.GetField(ctx, fieldID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}

	owning, err := e.store.GetVersion(ctx, f.VersionID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrVersionNotFound, f.VersionID)
	}
	if !owning.IsCurrent() {
		return nil, nil, fmt.Errorf("%w: field %q belongs to version %d", ErrStaleVersion, f.Name, owning.VersionNumber)
	}
	if f.DataType.IsSystem() {
		return nil, nil, fmt.Errorf("%w: field %q has data type %s and cannot be deleted or updated", ErrSystemDataType, f.Name, f.DataType)
	}
	return f, owning, nil
}

// validateFieldName applies the naming rules for a field on the given
// entity: format validity plus the reserved-word list, which binds only on
// the built-in user entity.
func (e *Engine) validateFieldName(entityName, fieldName string) error {
	if !naming.IsValid(fieldName) {
		return fmt.Errorf("%w: %q: %s", ErrInvalidName, fieldName, naming.ValidationMessage)
	}
	if naming.IsReserved(entityName, fieldName) {
		return fmt.Errorf("%w: %q is reserved on the %s entity", ErrReservedName, strings.ToLower(fieldName), naming.UserEntityName)
	}
	return nil
}
