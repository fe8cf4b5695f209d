package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/version"
)

// ──────────────────────────────────────────────────
// Entity model
// ──────────────────────────────────────────────────

type entityModel struct {
	grove.BaseModel   `grove:"table:blueprint_entities"`
	ID                string     `grove:"id,pk"`
	AppID             string     `grove:"app_id,notnull"`
	Name              string     `grove:"name,notnull"`
	DisplayName       string     `grove:"display_name,notnull"`
	PluralDisplayName string     `grove:"plural_display_name,notnull"`
	Description       string     `grove:"description"`
	LockedByUserID    *string    `grove:"locked_by_user_id"`
	LockedAt          *time.Time `grove:"locked_at"`
	DeletedAt         *time.Time `grove:"deleted_at"`
	CreatedAt         time.Time  `grove:"created_at,notnull"`
	UpdatedAt         time.Time  `grove:"updated_at,notnull"`
}

func entityToModel(e *entity.Entity) *entityModel {
	m := &entityModel{
		ID:                e.ID.String(),
		AppID:             e.AppID.String(),
		Name:              e.Name,
		DisplayName:       e.DisplayName,
		PluralDisplayName: e.PluralDisplayName,
		Description:       e.Description,
		LockedAt:          e.LockedAt,
		DeletedAt:         e.DeletedAt,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	if e.LockedByUserID != nil {
		s := e.LockedByUserID.String()
		m.LockedByUserID = &s
	}
	return m
}

func entityFromModel(m *entityModel) *entity.Entity {
	eid, _ := id.ParseEntityID(m.ID) //nolint:errcheck // stored IDs are always valid
	aid, _ := id.ParseAppID(m.AppID) //nolint:errcheck // stored IDs are always valid
	e := &entity.Entity{
		ID:                eid,
		AppID:             aid,
		Name:              m.Name,
		DisplayName:       m.DisplayName,
		PluralDisplayName: m.PluralDisplayName,
		Description:       m.Description,
		LockedAt:          m.LockedAt,
		DeletedAt:         m.DeletedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.LockedByUserID != nil {
		uid, err := id.ParseUserID(*m.LockedByUserID)
		if err == nil {
			e.LockedByUserID = &uid
		}
	}
	return e
}

// ──────────────────────────────────────────────────
// Version model
// ──────────────────────────────────────────────────

type versionModel struct {
	grove.BaseModel   `grove:"table:blueprint_entity_versions"`
	ID                string    `grove:"id,pk"`
	EntityID          string    `grove:"entity_id,notnull"`
	VersionNumber     int       `grove:"version_number,notnull"`
	CommitID          *string   `grove:"commit_id"`
	Name              string    `grove:"name,notnull"`
	DisplayName       string    `grove:"display_name,notnull"`
	PluralDisplayName string    `grove:"plural_display_name,notnull"`
	Description       string    `grove:"description"`
	CreatedAt         time.Time `grove:"created_at,notnull"`
	UpdatedAt         time.Time `grove:"updated_at,notnull"`
}

func versionToModel(v *version.Version) *versionModel {
	m := &versionModel{
		ID:                v.ID.String(),
		EntityID:          v.EntityID.String(),
		VersionNumber:     v.VersionNumber,
		Name:              v.Name,
		DisplayName:       v.DisplayName,
		PluralDisplayName: v.PluralDisplayName,
		Description:       v.Description,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
	if v.CommitID != nil {
		s := v.CommitID.String()
		m.CommitID = &s
	}
	return m
}

func versionFromModel(m *versionModel) *version.Version {
	vid, _ := id.ParseVersionID(m.ID)      //nolint:errcheck // stored IDs are always valid
	eid, _ := id.ParseEntityID(m.EntityID) //nolint:errcheck // stored IDs are always valid
	v := &version.Version{
		ID:                vid,
		EntityID:          eid,
		VersionNumber:     m.VersionNumber,
		Name:              m.Name,
		DisplayName:       m.DisplayName,
		PluralDisplayName: m.PluralDisplayName,
		Description:       m.Description,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.CommitID != nil {
		cid, err := id.ParseCommitID(*m.CommitID)
		if err == nil {
			v.CommitID = &cid
		}
	}
	return v
}

// ──────────────────────────────────────────────────
// Field model
// ──────────────────────────────────────────────────

type fieldModel struct {
	grove.BaseModel `grove:"table:blueprint_fields"`
	ID              string    `grove:"id,pk"`
	PermanentID     string    `grove:"permanent_id,notnull"`
	VersionID       string    `grove:"version_id,notnull"`
	Name            string    `grove:"name,notnull"`
	DisplayName     string    `grove:"display_name,notnull"`
	DataType        string    `grove:"data_type,notnull"`
	Properties      string    `grove:"properties"` // JSON text
	Required        bool      `grove:"required,notnull"`
	Searchable      bool      `grove:"searchable,notnull"`
	Description     string    `grove:"description"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func fieldToModel(f *field.Field) (*fieldModel, error) {
	properties, err := json.Marshal(f.Properties)
	if err != nil {
		return nil, fmt.Errorf("marshal field properties: %w", err)
	}
	return &fieldModel{
		ID:          f.ID.String(),
		PermanentID: f.PermanentID.String(),
		VersionID:   f.VersionID.String(),
		Name:        f.Name,
		DisplayName: f.DisplayName,
		DataType:    string(f.DataType),
		Properties:  string(properties),
		Required:    f.Required,
		Searchable:  f.Searchable,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}, nil
}

func fieldFromModel(m *fieldModel) (*field.Field, error) {
	fid, _ := id.ParseFieldID(m.ID)                   //nolint:errcheck // stored IDs are always valid
	pid, _ := id.ParseFieldPermanentID(m.PermanentID) //nolint:errcheck // stored IDs are always valid
	vid, _ := id.ParseVersionID(m.VersionID)          //nolint:errcheck // stored IDs are always valid
	var properties map[string]any
	if m.Properties != "" {
		if err := json.Unmarshal([]byte(m.Properties), &properties); err != nil {
			return nil, fmt.Errorf("unmarshal field properties: %w", err)
		}
	}
	return &field.Field{
		ID:          fid,
		PermanentID: pid,
		VersionID:   vid,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		DataType:    field.DataType(m.DataType),
		Properties:  properties,
		Required:    m.Required,
		Searchable:  m.Searchable,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Permission models
// ──────────────────────────────────────────────────

type permissionModel struct {
	grove.BaseModel `grove:"table:blueprint_permissions"`
	ID              string    `grove:"id,pk"`
	VersionID       string    `grove:"version_id,notnull"`
	Action          string    `grove:"action,notnull"`
	Type            string    `grove:"type,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func permissionToModel(p *permission.Permission) *permissionModel {
	return &permissionModel{
		ID:        p.ID.String(),
		VersionID: p.VersionID.String(),
		Action:    string(p.Action),
		Type:      string(p.Type),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func permissionFromModel(m *permissionModel) *permission.Permission {
	pid, _ := id.ParsePermissionID(m.ID)     //nolint:errcheck // stored IDs are always valid
	vid, _ := id.ParseVersionID(m.VersionID) //nolint:errcheck // stored IDs are always valid
	return &permission.Permission{
		ID:        pid,
		VersionID: vid,
		Action:    permission.Action(m.Action),
		Type:      permission.Type(m.Type),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// permissionRoleModel is the permission-to-role junction.
type permissionRoleModel struct {
	grove.BaseModel `grove:"table:blueprint_permission_roles"`
	PermissionID    string `grove:"permission_id,pk"`
	RoleID          string `grove:"role_id,pk"`
}

type permissionFieldModel struct {
	grove.BaseModel  `grove:"table:blueprint_permission_fields"`
	ID               string    `grove:"id,pk"`
	PermissionID     string    `grove:"permission_id,notnull"`
	FieldPermanentID string    `grove:"field_permanent_id,notnull"`
	VersionID        string    `grove:"version_id,notnull"`
	CreatedAt        time.Time `grove:"created_at,notnull"`
}

func permissionFieldToModel(pf *permission.PermissionField) *permissionFieldModel {
	return &permissionFieldModel{
		ID:               pf.ID.String(),
		PermissionID:     pf.PermissionID.String(),
		FieldPermanentID: pf.FieldPermanentID.String(),
		VersionID:        pf.VersionID.String(),
		CreatedAt:        pf.CreatedAt,
	}
}

func permissionFieldFromModel(m *permissionFieldModel) *permission.PermissionField {
	pfid, _ := id.ParsePermissionFieldID(m.ID)              //nolint:errcheck // stored IDs are always valid
	pid, _ := id.ParsePermissionID(m.PermissionID)          //nolint:errcheck // stored IDs are always valid
	fpid, _ := id.ParseFieldPermanentID(m.FieldPermanentID) //nolint:errcheck // stored IDs are always valid
	vid, _ := id.ParseVersionID(m.VersionID)                //nolint:errcheck // stored IDs are always valid
	return &permission.PermissionField{
		ID:               pfid,
		PermissionID:     pid,
		FieldPermanentID: fpid,
		VersionID:        vid,
		CreatedAt:        m.CreatedAt,
	}
}

// permissionFieldRoleModel is the permission-field-to-role junction.
type permissionFieldRoleModel struct {
	grove.BaseModel   `grove:"table:blueprint_permission_field_roles"`
	PermissionFieldID string `grove:"permission_field_id,pk"`
	RoleID            string `grove:"role_id,pk"`
}

// ──────────────────────────────────────────────────
// Change log model
// ──────────────────────────────────────────────────

type changeModel struct {
	grove.BaseModel `grove:"table:blueprint_changes"`
	ID              string    `grove:"id,pk"`
	AppID           string    `grove:"app_id"`
	EntityID        string    `grove:"entity_id,notnull"`
	UserID          string    `grove:"user_id"`
	Operation       string    `grove:"operation,notnull"`
	Detail          string    `grove:"detail"`
	Metadata        string    `grove:"metadata"` // JSON text
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func changeToModel(e *audit.Entry) (*changeModel, error) {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal change metadata: %w", err)
	}
	return &changeModel{
		ID:        e.ID.String(),
		AppID:     e.AppID.String(),
		EntityID:  e.EntityID.String(),
		UserID:    e.UserID.String(),
		Operation: string(e.Operation),
		Detail:    e.Detail,
		Metadata:  string(metadata),
		CreatedAt: e.CreatedAt,
	}, nil
}

func changeFromModel(m *changeModel) (*audit.Entry, error) {
	cid, _ := id.ParseChangeID(m.ID)       //nolint:errcheck // stored IDs are always valid
	eid, _ := id.ParseEntityID(m.EntityID) //nolint:errcheck // stored IDs are always valid
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal change metadata: %w", err)
		}
	}
	e := &audit.Entry{
		ID:        cid,
		EntityID:  eid,
		Operation: audit.Operation(m.Operation),
		Detail:    m.Detail,
		Metadata:  metadata,
		CreatedAt: m.CreatedAt,
	}
	if m.AppID != "" {
		aid, err := id.ParseAppID(m.AppID)
		if err == nil {
			e.AppID = aid
		}
	}
	if m.UserID != "" {
		uid, err := id.ParseUserID(m.UserID)
		if err == nil {
			e.UserID = uid
		}
	}
	return e, nil
}
