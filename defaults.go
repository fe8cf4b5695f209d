package blueprint

import (
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/naming"
	"github.com/xraph/blueprint/permission"
)

// EntityTemplate is a platform-defined seed entity inserted when an
// application is created.
type EntityTemplate struct {
	Name              string
	DisplayName       string
	PluralDisplayName string
	Description       string
	Fields            []FieldTemplate
}

// FieldTemplate is one seeded field of an entity template.
type FieldTemplate struct {
	Name        string
	DisplayName string
	DataType    field.DataType
	Properties  map[string]any
	Required    bool
	Searchable  bool
	Description string
}

// defaultEntityTemplates is the fixed seed set: the built-in user entity
// with the fields its generated authentication code depends on.
var defaultEntityTemplates = []EntityTemplate{
	{
		Name:              naming.UserEntityName,
		DisplayName:       naming.UserEntityName,
		PluralDisplayName: "Users",
		Fields: []FieldTemplate{
			{
				Name:        "username",
				DisplayName: "Username",
				DataType:    field.Username,
				Required:    true,
				Searchable:  false,
			},
			{
				Name:        "password",
				DisplayName: "Password",
				DataType:    field.Password,
				Required:    true,
				Searchable:  false,
			},
			{
				Name:        "firstName",
				DisplayName: "First Name",
				DataType:    field.SingleLineText,
				Properties:  map[string]any{"maxLength": 256},
				Required:    false,
				Searchable:  false,
			},
			{
				Name:        "lastName",
				DisplayName: "Last Name",
				DataType:    field.SingleLineText,
				Properties:  map[string]any{"maxLength": 256},
				Required:    false,
				Searchable:  false,
			},
			{
				Name:        "roles",
				DisplayName: "Roles",
				DataType:    field.Roles,
				Required:    true,
				Searchable:  false,
			},
		},
	},
}

// DefaultEntities returns the seed entity templates. The returned slice is
// a copy; the template set itself is immutable.
func DefaultEntities() []EntityTemplate {
	out := make([]EntityTemplate, len(defaultEntityTemplates))
	copy(out, defaultEntityTemplates)
	return out
}

// defaultPermissions builds the open default permission set for a freshly
// created version: every action permitted for all roles.
func defaultPermissions(versionID id.VersionID) []*permission.Permission {
	actions := permission.Actions()
	perms := make([]*permission.Permission, 0, len(actions))
	for _, action := range actions {
		perms = append(perms, &permission.Permission{
			ID:        id.NewPermissionID(),
			VersionID: versionID,
			Action:    action,
			Type:      permission.TypeAllRoles,
		})
	}
	return perms
}
