// Package postgres provides a PostgreSQL implementation of the Blueprint
// composite store using grove ORM with Go-based migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/store"
	"github.com/xraph/blueprint/version"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// errNotFound is the sentinel for missing records.
var errNotFound = fmt.Errorf("not found")

// errDuplicate marks unique-constraint violations surfaced by Postgres.
var errDuplicate = fmt.Errorf("duplicate")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Store is a PostgreSQL implementation of the composite Blueprint store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("blueprint: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("blueprint: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ──────────────────────────────────────────────────
// Entity operations
// ──────────────────────────────────────────────────

func (s *Store) CreateEntity(ctx context.Context, e *entity.Entity) error {
	m := entityToModel(e)
	if _, err := s.pgdb.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("blueprint: create entity: %w", errDuplicate)
		}
		return fmt.Errorf("blueprint: create entity: %w", err)
	}
	return nil
}

func (s *Store) GetEntity(ctx context.Context, entityID id.EntityID) (*entity.Entity, error) {
	m := new(entityModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", entityID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("entity %s: %w", entityID, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get entity: %w", err)
	}
	return entityFromModel(m), nil
}

func (s *Store) FindEntity(ctx context.Context, filter *entity.ListFilter) (*entity.Entity, error) {
	m := new(entityModel)
	q := s.pgdb.NewSelect(m).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.IncludeDeleted {
			q = q.Where("deleted_at IS NULL")
		}
		if !filter.AppID.IsNil() {
			q = q.Where("app_id = ?", filter.AppID.String())
		}
		if filter.Name != "" {
			q = q.Where("name = ?", filter.Name)
		}
	} else {
		q = q.Where("deleted_at IS NULL")
	}
	if err := q.Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("entity: %w", errNotFound)
		}
		return nil, fmt.Errorf("blueprint: find entity: %w", err)
	}
	return entityFromModel(m), nil
}

func (s *Store) UpdateEntity(ctx context.Context, e *entity.Entity) error {
	m := entityToModel(e)
	if _, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("blueprint: update entity: %w", err)
	}
	return nil
}

func (s *Store) ListEntities(ctx context.Context, filter *entity.ListFilter) ([]*entity.Entity, error) {
	var models []entityModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.IncludeDeleted {
			q = q.Where("deleted_at IS NULL")
		}
		if !filter.AppID.IsNil() {
			q = q.Where("app_id = ?", filter.AppID.String())
		}
		if filter.Name != "" {
			q = q.Where("name = ?", filter.Name)
		}
		if filter.Search != "" {
			q = q.Where("(name ILIKE ? OR display_name ILIKE ?)",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	} else {
		q = q.Where("deleted_at IS NULL")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("blueprint: list entities: %w", err)
	}
	result := make([]*entity.Entity, len(models))
	for i := range models {
		result[i] = entityFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountEntities(ctx context.Context, filter *entity.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*entityModel)(nil))
	if filter != nil {
		if !filter.IncludeDeleted {
			q = q.Where("deleted_at IS NULL")
		}
		if !filter.AppID.IsNil() {
			q = q.Where("app_id = ?", filter.AppID.String())
		}
		if filter.Name != "" {
			q = q.Where("name = ?", filter.Name)
		}
		if filter.Search != "" {
			q = q.Where("(name ILIKE ? OR display_name ILIKE ?)",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	} else {
		q = q.Where("deleted_at IS NULL")
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("blueprint: count entities: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Version operations
// ──────────────────────────────────────────────────

func (s *Store) CreateVersion(ctx context.Context, v *version.Version) error {
	m := versionToModel(v)
	if _, err := s.pgdb.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("blueprint: create version: %w", errDuplicate)
		}
		return fmt.Errorf("blueprint: create version: %w", err)
	}
	return nil
}

func (s *Store) GetVersion(ctx context.Context, versionID id.VersionID) (*version.Version, error) {
	m := new(versionModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", versionID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("version %s: %w", versionID, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get version: %w", err)
	}
	return versionFromModel(m), nil
}

func (s *Store) GetVersionWithContents(ctx context.Context, versionID id.VersionID) (*version.Version, error) {
	v, err := s.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	v.Fields, err = s.ListFields(ctx, &field.ListFilter{VersionID: versionID})
	if err != nil {
		return nil, err
	}
	v.Permissions, err = s.ListPermissions(ctx, versionID)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) GetCurrentVersion(ctx context.Context, entityID id.EntityID) (*version.Version, error) {
	m := new(versionModel)
	err := s.pgdb.NewSelect(m).
		Where("entity_id = ?", entityID.String()).
		Where("version_number = ?", version.CurrentNumber).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("current version of entity %s: %w", entityID, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get current version: %w", err)
	}
	return versionFromModel(m), nil
}

func (s *Store) UpdateVersion(ctx context.Context, v *version.Version) error {
	m := versionToModel(v)
	if _, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("blueprint: update version: %w", err)
	}
	return nil
}

func (s *Store) ListVersions(ctx context.Context, entityID id.EntityID) ([]*version.Version, error) {
	var models []versionModel
	err := s.pgdb.NewSelect(&models).
		Where("entity_id = ?", entityID.String()).
		OrderExpr("version_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("blueprint: list versions: %w", err)
	}
	result := make([]*version.Version, len(models))
	for i := range models {
		result[i] = versionFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Field operations
// ──────────────────────────────────────────────────

func (s *Store) CreateField(ctx context.Context, f *field.Field) error {
	m := fieldToModel(f)
	if _, err := s.pgdb.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("blueprint: create field: %w", errDuplicate)
		}
		return fmt.Errorf("blueprint: create field: %w", err)
	}
	return nil
}

func (s *Store) CreateFields(ctx context.Context, fields []*field.Field) error {
	if len(fields) == 0 {
		return nil
	}
	models := make([]fieldModel, len(fields))
	for i, f := range fields {
		models[i] = *fieldToModel(f)
	}
	if _, err := s.pgdb.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("blueprint: create fields: %w", err)
	}
	return nil
}

func (s *Store) GetField(ctx context.Context, fieldID id.FieldID) (*field.Field, error) {
	m := new(fieldModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", fieldID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("field %s: %w", fieldID, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get field: %w", err)
	}
	return fieldFromModel(m), nil
}

func (s *Store) GetFieldByName(ctx context.Context, versionID id.VersionID, name string) (*field.Field, error) {
	m := new(fieldModel)
	err := s.pgdb.NewSelect(m).
		Where("version_id = ?", versionID.String()).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("field %q: %w", name, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get field by name: %w", err)
	}
	return fieldFromModel(m), nil
}

func (s *Store) GetFieldByPermanentID(ctx context.Context, versionID id.VersionID, permanentID id.FieldPermanentID) (*field.Field, error) {
	m := new(fieldModel)
	err := s.pgdb.NewSelect(m).
		Where("version_id = ?", versionID.String()).
		Where("permanent_id = ?", permanentID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("field permanent %s: %w", permanentID, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get field by permanent id: %w", err)
	}
	return fieldFromModel(m), nil
}

func (s *Store) UpdateField(ctx context.Context, f *field.Field) error {
	m := fieldToModel(f)
	if _, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("blueprint: update field: %w", err)
	}
	return nil
}

func (s *Store) DeleteField(ctx context.Context, fieldID id.FieldID) error {
	_, err := s.pgdb.NewDelete((*fieldModel)(nil)).
		Where("id = ?", fieldID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: delete field: %w", err)
	}
	return nil
}

func (s *Store) DeleteFieldsByVersion(ctx context.Context, versionID id.VersionID) error {
	_, err := s.pgdb.NewDelete((*fieldModel)(nil)).
		Where("version_id = ?", versionID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: delete fields by version: %w", err)
	}
	return nil
}

func (s *Store) ListFields(ctx context.Context, filter *field.ListFilter) ([]*field.Field, error) {
	var models []fieldModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC, name ASC")
	if filter != nil {
		if !filter.VersionID.IsNil() {
			q = q.Where("version_id = ?", filter.VersionID.String())
		}
		if filter.Search != "" {
			q = q.Where("(name ILIKE ? OR display_name ILIKE ?)",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("blueprint: list fields: %w", err)
	}
	result := make([]*field.Field, 0, len(models))
	for i := range models {
		f := fieldFromModel(&models[i])
		if filter != nil && len(filter.Names) > 0 && !containsName(filter.Names, f.Name) {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────────
// Permission operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePermissions(ctx context.Context, perms []*permission.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	tx, err := s.pgdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("blueprint: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	for _, p := range perms {
		if _, err := tx.NewInsert(permissionToModel(p)).Exec(ctx); err != nil {
			return fmt.Errorf("blueprint: create permissions: %w", err)
		}
		for _, roleID := range p.Roles {
			m := &permissionRoleModel{PermissionID: p.ID.String(), RoleID: roleID.String()}
			if _, err := tx.NewInsert(m).Exec(ctx); err != nil {
				return fmt.Errorf("blueprint: create permission roles: %w", err)
			}
		}
		for _, pf := range p.Fields {
			if _, err := tx.NewInsert(permissionFieldToModel(pf)).Exec(ctx); err != nil {
				return fmt.Errorf("blueprint: create permission fields: %w", err)
			}
			for _, roleID := range pf.Roles {
				m := &permissionFieldRoleModel{PermissionFieldID: pf.ID.String(), RoleID: roleID.String()}
				if _, err := tx.NewInsert(m).Exec(ctx); err != nil {
					return fmt.Errorf("blueprint: create permission field roles: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("blueprint: commit tx: %w", err)
	}
	return nil
}

func (s *Store) GetPermission(ctx context.Context, versionID id.VersionID, action permission.Action) (*permission.Permission, error) {
	m := new(permissionModel)
	err := s.pgdb.NewSelect(m).
		Where("version_id = ?", versionID.String()).
		Where("action = ?", string(action)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("permission %s: %w", action, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get permission: %w", err)
	}
	p := permissionFromModel(m)
	if err := s.loadPermissionContents(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPermissions(ctx context.Context, versionID id.VersionID) ([]*permission.Permission, error) {
	var models []permissionModel
	err := s.pgdb.NewSelect(&models).
		Where("version_id = ?", versionID.String()).
		OrderExpr("action ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("blueprint: list permissions: %w", err)
	}
	result := make([]*permission.Permission, len(models))
	for i := range models {
		p := permissionFromModel(&models[i])
		if err := s.loadPermissionContents(ctx, p); err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) UpdatePermission(ctx context.Context, p *permission.Permission) error {
	m := permissionToModel(p)
	if _, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("blueprint: update permission: %w", err)
	}
	return nil
}

func (s *Store) SetPermissionRoles(ctx context.Context, permID id.PermissionID, roles []id.RoleID) error {
	tx, err := s.pgdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("blueprint: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	_, err = tx.NewDelete((*permissionRoleModel)(nil)).
		Where("permission_id = ?", permID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: clear permission roles: %w", err)
	}

	if len(roles) > 0 {
		models := make([]permissionRoleModel, len(roles))
		for i, roleID := range roles {
			models[i] = permissionRoleModel{
				PermissionID: permID.String(),
				RoleID:       roleID.String(),
			}
		}
		if _, err := tx.NewInsert(&models).Exec(ctx); err != nil {
			return fmt.Errorf("blueprint: set permission roles: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("blueprint: commit tx: %w", err)
	}
	return nil
}

func (s *Store) DeletePermissionsByVersion(ctx context.Context, versionID id.VersionID) error {
	// junction rows cascade off the permission delete
	_, err := s.pgdb.NewDelete((*permissionModel)(nil)).
		Where("version_id = ?", versionID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: delete permissions by version: %w", err)
	}
	return nil
}

func (s *Store) CreatePermissionField(ctx context.Context, pf *permission.PermissionField) error {
	m := permissionFieldToModel(pf)
	if _, err := s.pgdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("blueprint: create permission field: %w", err)
	}
	return nil
}

func (s *Store) FindPermissionFields(ctx context.Context, versionID id.VersionID, action permission.Action, fieldPermanentID id.FieldPermanentID) ([]*permission.PermissionField, error) {
	pm := new(permissionModel)
	err := s.pgdb.NewSelect(pm).
		Where("version_id = ?", versionID.String()).
		Where("action = ?", string(action)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("blueprint: find permission fields: %w", err)
	}

	var models []permissionFieldModel
	err = s.pgdb.NewSelect(&models).
		Where("permission_id = ?", pm.ID).
		Where("field_permanent_id = ?", fieldPermanentID.String()).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("blueprint: find permission fields: %w", err)
	}
	result := make([]*permission.PermissionField, len(models))
	for i := range models {
		pf := permissionFieldFromModel(&models[i])
		pf.Roles, err = s.loadPermissionFieldRoles(ctx, pf.ID)
		if err != nil {
			return nil, err
		}
		result[i] = pf
	}
	return result, nil
}

func (s *Store) SetPermissionFieldRoles(ctx context.Context, pfID id.PermissionFieldID, roles []id.RoleID) error {
	tx, err := s.pgdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("blueprint: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	_, err = tx.NewDelete((*permissionFieldRoleModel)(nil)).
		Where("permission_field_id = ?", pfID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: clear permission field roles: %w", err)
	}

	if len(roles) > 0 {
		models := make([]permissionFieldRoleModel, len(roles))
		for i, roleID := range roles {
			models[i] = permissionFieldRoleModel{
				PermissionFieldID: pfID.String(),
				RoleID:            roleID.String(),
			}
		}
		if _, err := tx.NewInsert(&models).Exec(ctx); err != nil {
			return fmt.Errorf("blueprint: set permission field roles: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("blueprint: commit tx: %w", err)
	}
	return nil
}

func (s *Store) DeletePermissionField(ctx context.Context, pfID id.PermissionFieldID) error {
	_, err := s.pgdb.NewDelete((*permissionFieldModel)(nil)).
		Where("id = ?", pfID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: delete permission field: %w", err)
	}
	return nil
}

// loadPermissionContents populates a permission's roles and field overrides.
func (s *Store) loadPermissionContents(ctx context.Context, p *permission.Permission) error {
	var roleModels []permissionRoleModel
	err := s.pgdb.NewSelect(&roleModels).
		Where("permission_id = ?", p.ID.String()).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: load permission roles: %w", err)
	}
	p.Roles = make([]id.RoleID, 0, len(roleModels))
	for _, m := range roleModels {
		rid, err := id.ParseRoleID(m.RoleID)
		if err == nil {
			p.Roles = append(p.Roles, rid)
		}
	}

	var fieldModels []permissionFieldModel
	err = s.pgdb.NewSelect(&fieldModels).
		Where("permission_id = ?", p.ID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("blueprint: load permission fields: %w", err)
	}
	p.Fields = make([]*permission.PermissionField, len(fieldModels))
	for i := range fieldModels {
		pf := permissionFieldFromModel(&fieldModels[i])
		pf.Roles, err = s.loadPermissionFieldRoles(ctx, pf.ID)
		if err != nil {
			return err
		}
		p.Fields[i] = pf
	}
	return nil
}

func (s *Store) loadPermissionFieldRoles(ctx context.Context, pfID id.PermissionFieldID) ([]id.RoleID, error) {
	var models []permissionFieldRoleModel
	err := s.pgdb.NewSelect(&models).
		Where("permission_field_id = ?", pfID.String()).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("blueprint: load permission field roles: %w", err)
	}
	roles := make([]id.RoleID, 0, len(models))
	for _, m := range models {
		rid, err := id.ParseRoleID(m.RoleID)
		if err == nil {
			roles = append(roles, rid)
		}
	}
	return roles, nil
}

// ──────────────────────────────────────────────────
// Change log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateChange(ctx context.Context, e *audit.Entry) error {
	m := changeToModel(e)
	if _, err := s.pgdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("blueprint: create change: %w", err)
	}
	return nil
}

func (s *Store) GetChange(ctx context.Context, changeID id.ChangeID) (*audit.Entry, error) {
	m := new(changeModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", changeID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("change %s: %w", changeID, errNotFound)
		}
		return nil, fmt.Errorf("blueprint: get change: %w", err)
	}
	return changeFromModel(m), nil
}

func (s *Store) ListChanges(ctx context.Context, filter *audit.QueryFilter) ([]*audit.Entry, error) {
	var models []changeModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if !filter.AppID.IsNil() {
			q = q.Where("app_id = ?", filter.AppID.String())
		}
		if !filter.EntityID.IsNil() {
			q = q.Where("entity_id = ?", filter.EntityID.String())
		}
		if !filter.UserID.IsNil() {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.Operation != "" {
			q = q.Where("operation = ?", string(filter.Operation))
		}
		if filter.After != nil {
			q = q.Where("created_at > ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at < ?", *filter.Before)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("blueprint: list changes: %w", err)
	}
	result := make([]*audit.Entry, len(models))
	for i := range models {
		result[i] = changeFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountChanges(ctx context.Context, filter *audit.QueryFilter) (int64, error) {
	q := s.pgdb.NewSelect((*changeModel)(nil))
	if filter != nil {
		if !filter.AppID.IsNil() {
			q = q.Where("app_id = ?", filter.AppID.String())
		}
		if !filter.EntityID.IsNil() {
			q = q.Where("entity_id = ?", filter.EntityID.String())
		}
		if !filter.UserID.IsNil() {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.Operation != "" {
			q = q.Where("operation = ?", string(filter.Operation))
		}
		if filter.After != nil {
			q = q.Where("created_at > ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at < ?", *filter.Before)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("blueprint: count changes: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeChanges(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.pgdb.NewDelete((*changeModel)(nil)).
		Where("created_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("blueprint: purge changes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("blueprint: purge changes rows: %w", err)
	}
	return n, nil
}
