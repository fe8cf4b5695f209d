// Package schema validates per-dataType field property payloads before they
// are persisted. Each data type declares a typed property struct; untyped
// payloads are decoded into it and checked with struct validation rules.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
)

// Validator validates field properties against the schema of their data type.
type Validator struct {
	validate *validator.Validate
}

// New creates a property validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// SingleLineTextProperties configures short text fields.
type SingleLineTextProperties struct {
	MaxLength int `json:"maxLength" validate:"required,gt=0,lte=1000"`
}

// MultiLineTextProperties configures long text fields.
type MultiLineTextProperties struct {
	MaxLength int `json:"maxLength" validate:"required,gt=0,lte=10000"`
}

// WholeNumberProperties configures integer fields.
type WholeNumberProperties struct {
	MinimumValue int `json:"minimumValue" validate:"ltefield=MaximumValue"`
	MaximumValue int `json:"maximumValue"`
}

// DecimalNumberProperties configures decimal fields.
type DecimalNumberProperties struct {
	MinimumValue float64 `json:"minimumValue" validate:"ltefield=MaximumValue"`
	MaximumValue float64 `json:"maximumValue"`
	Precision    int     `json:"precision" validate:"gte=0,lte=8"`
}

// DateTimeProperties configures date/time fields.
type DateTimeProperties struct {
	TimeZone string `json:"timeZone" validate:"omitempty,oneof=localTime serverTime"`
	DateOnly bool   `json:"dateOnly"`
}

// OptionSetOption is one selectable value of an option set.
type OptionSetOption struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// OptionSetProperties configures single- and multi-select option sets.
type OptionSetProperties struct {
	Options []OptionSetOption `json:"options" validate:"required,min=1,dive"`
}

// LookupProperties configures relation fields.
type LookupProperties struct {
	RelatedEntityID string `json:"relatedEntityId" validate:"required"`
	AllowMultiple   bool   `json:"allowMultipleSelection"`
}

// Validate checks properties against the schema of dataType. Data types
// without configurable properties accept any payload, including none.
func (v *Validator) Validate(dataType field.DataType, properties map[string]any) error {
	if !dataType.IsValid() {
		return fmt.Errorf("schema: unknown data type %q", dataType)
	}

	switch dataType {
	case field.SingleLineText:
		return v.check(dataType, properties, &SingleLineTextProperties{})
	case field.MultiLineText:
		return v.check(dataType, properties, &MultiLineTextProperties{})
	case field.WholeNumber:
		return v.check(dataType, properties, &WholeNumberProperties{})
	case field.DecimalNumber:
		return v.check(dataType, properties, &DecimalNumberProperties{})
	case field.DateTime:
		return v.check(dataType, properties, &DateTimeProperties{})
	case field.OptionSet, field.MultiSelectOptionSet:
		return v.check(dataType, properties, &OptionSetProperties{})
	case field.Lookup:
		if err := v.check(dataType, properties, &LookupProperties{}); err != nil {
			return err
		}
		// The related entity reference must at least parse as an entity id.
		raw, _ := properties["relatedEntityId"].(string)
		if _, err := id.ParseEntityID(raw); err != nil {
			return fmt.Errorf("schema: %s properties: relatedEntityId: %w", dataType, err)
		}
		return nil
	default:
		// Email, Boolean, GeographicLocation and the system types carry no
		// configurable properties.
		return nil
	}
}

// check decodes the untyped payload into the typed schema struct and runs
// its validation rules.
func (v *Validator) check(dataType field.DataType, properties map[string]any, schema any) error {
	raw, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("schema: encode %s properties: %w", dataType, err)
	}
	if err := json.Unmarshal(raw, schema); err != nil {
		return fmt.Errorf("schema: decode %s properties: %w", dataType, err)
	}
	if err := v.validate.Struct(schema); err != nil {
		return fmt.Errorf("schema: invalid %s properties: %w", dataType, err)
	}
	return nil
}
