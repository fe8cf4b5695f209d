// Package memory provides an in-memory implementation of the Blueprint
// composite store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/version"
)

// Compile-time interface checks.
var (
	_ entity.Store     = (*Store)(nil)
	_ version.Store    = (*Store)(nil)
	_ field.Store      = (*Store)(nil)
	_ permission.Store = (*Store)(nil)
	_ audit.Store      = (*Store)(nil)
)

var errNotFound = fmt.Errorf("not found")

// Store is a thread-safe in-memory store for all Blueprint records.
// Permission roles and field overrides are held inline on their permission.
type Store struct {
	mu sync.RWMutex

	entities    map[string]*entity.Entity
	versions    map[string]*version.Version
	fields      map[string]*field.Field
	permissions map[string]*permission.Permission
	changes     map[string]*audit.Entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		entities:    make(map[string]*entity.Entity),
		versions:    make(map[string]*version.Version),
		fields:      make(map[string]*field.Field),
		permissions: make(map[string]*permission.Permission),
		changes:     make(map[string]*audit.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Entity Store
// ──────────────────────────────────────────────────

func (s *Store) CreateEntity(_ context.Context, e *entity.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[e.ID.String()] = e.Clone()
	return nil
}

func (s *Store) GetEntity(_ context.Context, entityID id.EntityID) (*entity.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entityID.String()]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", entityID, errNotFound)
	}
	return e.Clone(), nil
}

func (s *Store) FindEntity(ctx context.Context, filter *entity.ListFilter) (*entity.Entity, error) {
	list, err := s.ListEntities(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("entity: %w", errNotFound)
	}
	return list[0], nil
}

func (s *Store) UpdateEntity(_ context.Context, e *entity.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entities[e.ID.String()]; !ok {
		return fmt.Errorf("entity %s: %w", e.ID, errNotFound)
	}
	s.entities[e.ID.String()] = e.Clone()
	return nil
}

func (s *Store) ListEntities(_ context.Context, filter *entity.ListFilter) ([]*entity.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*entity.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if filter != nil {
			if !filter.IncludeDeleted && e.DeletedAt != nil {
				continue
			}
			if !filter.AppID.IsNil() && e.AppID != filter.AppID {
				continue
			}
			if filter.Name != "" && e.Name != filter.Name {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Search)) &&
				!strings.Contains(strings.ToLower(e.DisplayName), strings.ToLower(filter.Search)) {
				continue
			}
		} else if e.DeletedAt != nil {
			continue
		}
		result = append(result, e.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return applyPagination(result, paginationOpts(filter)), nil
}

func (s *Store) CountEntities(ctx context.Context, filter *entity.ListFilter) (int64, error) {
	list, err := s.ListEntities(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Version Store
// ──────────────────────────────────────────────────

func (s *Store) CreateVersion(_ context.Context, v *version.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[v.ID.String()] = v.Clone()
	return nil
}

func (s *Store) GetVersion(_ context.Context, versionID id.VersionID) (*version.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[versionID.String()]
	if !ok {
		return nil, fmt.Errorf("version %s: %w", versionID, errNotFound)
	}
	return v.Clone(), nil
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

func (s *Store) GetCurrentVersion(_ context.Context, entityID id.EntityID) (*version.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.versions {
		if v.EntityID == entityID && v.VersionNumber == version.CurrentNumber {
			return v.Clone(), nil
		}
	}
	return nil, fmt.Errorf("current version of entity %s: %w", entityID, errNotFound)
}

func (s *Store) UpdateVersion(_ context.Context, v *version.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.versions[v.ID.String()]; !ok {
		return fmt.Errorf("version %s: %w", v.ID, errNotFound)
	}
	s.versions[v.ID.String()] = v.Clone()
	return nil
}

func (s *Store) ListVersions(_ context.Context, entityID id.EntityID) ([]*version.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*version.Version, 0)
	for _, v := range s.versions {
		if v.EntityID == entityID {
			result = append(result, v.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VersionNumber < result[j].VersionNumber })
	return result, nil
}

// ──────────────────────────────────────────────────
// Field Store
// ──────────────────────────────────────────────────

func (s *Store) CreateField(_ context.Context, f *field.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[f.ID.String()] = f.Clone()
	return nil
}

func (s *Store) CreateFields(_ context.Context, fields []*field.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fields {
		s.fields[f.ID.String()] = f.Clone()
	}
	return nil
}

func (s *Store) GetField(_ context.Context, fieldID id.FieldID) (*field.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fields[fieldID.String()]
	if !ok {
		return nil, fmt.Errorf("field %s: %w", fieldID, errNotFound)
	}
	return f.Clone(), nil
}

func (s *Store) GetFieldByName(_ context.Context, versionID id.VersionID, name string) (*field.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fields {
		if f.VersionID == versionID && f.Name == name {
			return f.Clone(), nil
		}
	}
	return nil, fmt.Errorf("field %q: %w", name, errNotFound)
}

func (s *Store) GetFieldByPermanentID(_ context.Context, versionID id.VersionID, permanentID id.FieldPermanentID) (*field.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fields {
		if f.VersionID == versionID && f.PermanentID == permanentID {
			return f.Clone(), nil
		}
	}
	return nil, fmt.Errorf("field permanent %s: %w", permanentID, errNotFound)
}

func (s *Store) UpdateField(_ context.Context, f *field.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fields[f.ID.String()]; !ok {
		return fmt.Errorf("field %s: %w", f.ID, errNotFound)
	}
	s.fields[f.ID.String()] = f.Clone()
	return nil
}

func (s *Store) DeleteField(_ context.Context, fieldID id.FieldID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fields, fieldID.String())
	return nil
}

func (s *Store) DeleteFieldsByVersion(_ context.Context, versionID id.VersionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, f := range s.fields {
		if f.VersionID == versionID {
			delete(s.fields, k)
		}
	}
	return nil
}

func (s *Store) ListFields(_ context.Context, filter *field.ListFilter) ([]*field.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*field.Field, 0)
	for _, f := range s.fields {
		if filter != nil {
			if !filter.VersionID.IsNil() && f.VersionID != filter.VersionID {
				continue
			}
			if len(filter.Names) > 0 && !containsName(filter.Names, f.Name) {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(filter.Search)) &&
				!strings.Contains(strings.ToLower(f.DisplayName), strings.ToLower(filter.Search)) {
				continue
			}
		}
		result = append(result, f.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Name < result[j].Name
	})
	if filter != nil {
		return applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset}), nil
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Permission Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePermissions(_ context.Context, perms []*permission.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range perms {
		s.permissions[p.ID.String()] = p.Clone()
	}
	return nil
}

func (s *Store) GetPermission(_ context.Context, versionID id.VersionID, action permission.Action) (*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.permissions {
		if p.VersionID == versionID && p.Action == action {
			return p.Clone(), nil
		}
	}
	return nil, fmt.Errorf("permission %s: %w", action, errNotFound)
}

func (s *Store) ListPermissions(_ context.Context, versionID id.VersionID) ([]*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*permission.Permission, 0)
	for _, p := range s.permissions {
		if p.VersionID == versionID {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Action < result[j].Action })
	return result, nil
}

func (s *Store) UpdatePermission(_ context.Context, p *permission.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.permissions[p.ID.String()]
	if !ok {
		return fmt.Errorf("permission %s: %w", p.ID, errNotFound)
	}
	updated := p.Clone()
	// roles and overrides are managed by their own operations
	updated.Roles = existing.Roles
	updated.Fields = existing.Fields
	s.permissions[p.ID.String()] = updated
	return nil
}

func (s *Store) SetPermissionRoles(_ context.Context, permID id.PermissionID, roles []id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permissions[permID.String()]
	if !ok {
		return fmt.Errorf("permission %s: %w", permID, errNotFound)
	}
	p.Roles = append([]id.RoleID(nil), roles...)
	return nil
}

func (s *Store) DeletePermissionsByVersion(_ context.Context, versionID id.VersionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, p := range s.permissions {
		if p.VersionID == versionID {
			delete(s.permissions, k)
		}
	}
	return nil
}

func (s *Store) CreatePermissionField(_ context.Context, pf *permission.PermissionField) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permissions[pf.PermissionID.String()]
	if !ok {
		return fmt.Errorf("permission %s: %w", pf.PermissionID, errNotFound)
	}
	p.Fields = append(p.Fields, pf.Clone())
	return nil
}

func (s *Store) FindPermissionFields(_ context.Context, versionID id.VersionID, action permission.Action, fieldPermanentID id.FieldPermanentID) ([]*permission.PermissionField, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*permission.PermissionField, 0)
	for _, p := range s.permissions {
		if p.VersionID != versionID || p.Action != action {
			continue
		}
		for _, pf := range p.Fields {
			if pf.FieldPermanentID == fieldPermanentID {
				result = append(result, pf.Clone())
			}
		}
	}
	return result, nil
}

func (s *Store) SetPermissionFieldRoles(_ context.Context, pfID id.PermissionFieldID, roles []id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.permissions {
		for _, pf := range p.Fields {
			if pf.ID == pfID {
				pf.Roles = append([]id.RoleID(nil), roles...)
				return nil
			}
		}
	}
	return fmt.Errorf("permission field %s: %w", pfID, errNotFound)
}

func (s *Store) DeletePermissionField(_ context.Context, pfID id.PermissionFieldID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.permissions {
		for i, pf := range p.Fields {
			if pf.ID == pfID {
				p.Fields = append(p.Fields[:i], p.Fields[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("permission field %s: %w", pfID, errNotFound)
}

// ──────────────────────────────────────────────────
// Audit Store
// ──────────────────────────────────────────────────

func (s *Store) CreateChange(_ context.Context, e *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.changes[e.ID.String()] = &cp
	return nil
}

func (s *Store) GetChange(_ context.Context, changeID id.ChangeID) (*audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.changes[changeID.String()]
	if !ok {
		return nil, fmt.Errorf("change %s: %w", changeID, errNotFound)
	}
	cp := *e
	return &cp, nil
}

func (s *Store) ListChanges(_ context.Context, filter *audit.QueryFilter) ([]*audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*audit.Entry, 0, len(s.changes))
	for _, e := range s.changes {
		if filter != nil {
			if !filter.AppID.IsNil() && e.AppID != filter.AppID {
				continue
			}
			if !filter.EntityID.IsNil() && e.EntityID != filter.EntityID {
				continue
			}
			if !filter.UserID.IsNil() && e.UserID != filter.UserID {
				continue
			}
			if filter.Operation != "" && e.Operation != filter.Operation {
				continue
			}
			if filter.After != nil && !e.CreatedAt.After(*filter.After) {
				continue
			}
			if filter.Before != nil && !e.CreatedAt.Before(*filter.Before) {
				continue
			}
		}
		cp := *e
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter != nil {
		return applyPagination(result, pagOpts{limit: filter.Limit, offset: filter.Offset}), nil
	}
	return result, nil
}

func (s *Store) CountChanges(ctx context.Context, filter *audit.QueryFilter) (int64, error) {
	list, err := s.ListChanges(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) PurgeChanges(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, e := range s.changes {
		if e.CreatedAt.Before(before) {
			delete(s.changes, k)
			n++
		}
	}
	return n, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

type pagOpts struct {
	limit  int
	offset int
}

func paginationOpts(filter *entity.ListFilter) pagOpts {
	if filter == nil {
		return pagOpts{}
	}
	return pagOpts{limit: filter.Limit, offset: filter.Offset}
}

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset > 0 && p.offset < len(items) {
		items = items[p.offset:]
	} else if p.offset >= len(items) && p.offset > 0 {
		return nil
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
