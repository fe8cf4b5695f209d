package schema_test

import (
	"testing"

	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/schema"
)

func TestValidate(t *testing.T) {
	v := schema.New()

	tests := []struct {
		name       string
		dataType   field.DataType
		properties map[string]any
		wantErr    bool
	}{
		{
			name:       "single line text ok",
			dataType:   field.SingleLineText,
			properties: map[string]any{"maxLength": 42},
		},
		{
			name:       "single line text missing maxLength",
			dataType:   field.SingleLineText,
			properties: map[string]any{},
			wantErr:    true,
		},
		{
			name:       "single line text maxLength too large",
			dataType:   field.SingleLineText,
			properties: map[string]any{"maxLength": 5000},
			wantErr:    true,
		},
		{
			name:       "whole number range ok",
			dataType:   field.WholeNumber,
			properties: map[string]any{"minimumValue": 0, "maximumValue": 100},
		},
		{
			name:       "whole number inverted range",
			dataType:   field.WholeNumber,
			properties: map[string]any{"minimumValue": 100, "maximumValue": 0},
			wantErr:    true,
		},
		{
			name:     "option set ok",
			dataType: field.OptionSet,
			properties: map[string]any{
				"options": []map[string]any{{"label": "Red", "value": "red"}},
			},
		},
		{
			name:       "option set empty options",
			dataType:   field.OptionSet,
			properties: map[string]any{"options": []map[string]any{}},
			wantErr:    true,
		},
		{
			name:     "option set missing value",
			dataType: field.OptionSet,
			properties: map[string]any{
				"options": []map[string]any{{"label": "Red"}},
			},
			wantErr: true,
		},
		{
			name:       "lookup ok",
			dataType:   field.Lookup,
			properties: map[string]any{"relatedEntityId": id.NewEntityID().String()},
		},
		{
			name:       "lookup bad entity id",
			dataType:   field.Lookup,
			properties: map[string]any{"relatedEntityId": "not-an-id"},
			wantErr:    true,
		},
		{
			name:       "boolean has no schema",
			dataType:   field.Boolean,
			properties: nil,
		},
		{
			name:       "unknown data type",
			dataType:   field.DataType("Bogus"),
			properties: nil,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.dataType, tt.properties)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
