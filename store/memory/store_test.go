package memory

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/store"
	"github.com/xraph/blueprint/version"
)

// Compile-time check that *Store implements store.Store.
var _ store.Store = (*Store)(nil)

func TestEntityCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	appID := id.NewAppID()
	e := &entity.Entity{
		ID:                id.NewEntityID(),
		AppID:             appID,
		Name:              "Order",
		DisplayName:       "Order",
		PluralDisplayName: "Orders",
		CreatedAt:         time.Now().UTC(),
	}

	// Create
	if err := s.CreateEntity(ctx, e); err != nil {
		t.Fatal(err)
	}

	// Get
	got, err := s.GetEntity(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Order" {
		t.Fatalf("expected Order, got %s", got.Name)
	}

	// Find by name
	got, err = s.FindEntity(ctx, &entity.ListFilter{AppID: appID, Name: "Order"})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != e.ID {
		t.Fatal("name lookup mismatch")
	}

	// Update
	e.DisplayName = "Customer Order"
	if err := s.UpdateEntity(ctx, e); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetEntity(ctx, e.ID)
	if got.DisplayName != "Customer Order" {
		t.Fatal("update failed")
	}

	// List + Count
	list, _ := s.ListEntities(ctx, &entity.ListFilter{AppID: appID})
	if len(list) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(list))
	}
	count, _ := s.CountEntities(ctx, &entity.ListFilter{AppID: appID})
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
}

func TestListEntitiesExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	s := New()

	appID := id.NewAppID()
	now := time.Now().UTC()
	live := &entity.Entity{ID: id.NewEntityID(), AppID: appID, Name: "Live", CreatedAt: now}
	gone := &entity.Entity{ID: id.NewEntityID(), AppID: appID, Name: "Gone", CreatedAt: now, DeletedAt: &now}
	if err := s.CreateEntity(ctx, live); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateEntity(ctx, gone); err != nil {
		t.Fatal(err)
	}

	list, _ := s.ListEntities(ctx, &entity.ListFilter{AppID: appID})
	if len(list) != 1 {
		t.Fatalf("expected 1 live entity, got %d", len(list))
	}

	list, _ = s.ListEntities(ctx, &entity.ListFilter{AppID: appID, IncludeDeleted: true})
	if len(list) != 2 {
		t.Fatalf("expected 2 entities with deleted, got %d", len(list))
	}
}

func TestVersionListOrdering(t *testing.T) {
	ctx := context.Background()
	s := New()

	entityID := id.NewEntityID()
	for _, n := range []int{2, 0, 1} {
		v := &version.Version{
			ID:            id.NewVersionID(),
			EntityID:      entityID,
			VersionNumber: n,
		}
		if err := s.CreateVersion(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListVersions(ctx, entityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(list))
	}
	for i, v := range list {
		if v.VersionNumber != i {
			t.Fatalf("expected version %d at index %d, got %d", i, i, v.VersionNumber)
		}
	}

	current, err := s.GetCurrentVersion(ctx, entityID)
	if err != nil {
		t.Fatal(err)
	}
	if current.VersionNumber != version.CurrentNumber {
		t.Fatalf("expected current version, got %d", current.VersionNumber)
	}
}

func TestFieldCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	versionID := id.NewVersionID()
	f := &field.Field{
		ID:          id.NewFieldID(),
		PermanentID: id.NewFieldPermanentID(),
		VersionID:   versionID,
		Name:        "email",
		DisplayName: "Email",
		DataType:    field.Email,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.CreateField(ctx, f); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetField(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "email" {
		t.Fatal("mismatch")
	}

	got, err = s.GetFieldByName(ctx, versionID, "email")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != f.ID {
		t.Fatal("name lookup mismatch")
	}

	got, err = s.GetFieldByPermanentID(ctx, versionID, f.PermanentID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != f.ID {
		t.Fatal("permanent lookup mismatch")
	}

	if err := s.DeleteField(ctx, f.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetField(ctx, f.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestDeleteFieldsByVersion(t *testing.T) {
	ctx := context.Background()
	s := New()

	v1 := id.NewVersionID()
	v2 := id.NewVersionID()
	for i, vID := range []id.VersionID{v1, v1, v2} {
		f := &field.Field{
			ID:          id.NewFieldID(),
			PermanentID: id.NewFieldPermanentID(),
			VersionID:   vID,
			Name:        string(rune('a' + i)),
			DataType:    field.SingleLineText,
		}
		if err := s.CreateField(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeleteFieldsByVersion(ctx, v1); err != nil {
		t.Fatal(err)
	}
	list, _ := s.ListFields(ctx, &field.ListFilter{VersionID: v1})
	if len(list) != 0 {
		t.Fatalf("expected 0 fields for v1, got %d", len(list))
	}
	list, _ = s.ListFields(ctx, &field.ListFilter{VersionID: v2})
	if len(list) != 1 {
		t.Fatalf("expected 1 field for v2, got %d", len(list))
	}
}

func TestPermissionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	versionID := id.NewVersionID()
	roleID := id.NewRoleID()
	fieldPermID := id.NewFieldPermanentID()

	p := &permission.Permission{
		ID:        id.NewPermissionID(),
		VersionID: versionID,
		Action:    permission.ActionView,
		Type:      permission.TypeAllRoles,
	}
	if err := s.CreatePermissions(ctx, []*permission.Permission{p}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPermission(ctx, versionID, permission.ActionView)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != permission.TypeAllRoles {
		t.Fatal("mismatch")
	}

	// Type change
	got.Type = permission.TypeGranular
	if err := s.UpdatePermission(ctx, got); err != nil {
		t.Fatal(err)
	}

	// Roles
	if err := s.SetPermissionRoles(ctx, p.ID, []id.RoleID{roleID}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetPermission(ctx, versionID, permission.ActionView)
	if got.Type != permission.TypeGranular {
		t.Fatal("type update lost")
	}
	if len(got.Roles) != 1 || got.Roles[0] != roleID {
		t.Fatal("roles not set")
	}

	// Permission field
	pf := &permission.PermissionField{
		ID:               id.NewPermissionFieldID(),
		PermissionID:     p.ID,
		FieldPermanentID: fieldPermID,
		VersionID:        versionID,
	}
	if err := s.CreatePermissionField(ctx, pf); err != nil {
		t.Fatal(err)
	}

	matches, err := s.FindPermissionFields(ctx, versionID, permission.ActionView, fieldPermID)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	if err := s.SetPermissionFieldRoles(ctx, pf.ID, []id.RoleID{roleID}); err != nil {
		t.Fatal(err)
	}
	matches, _ = s.FindPermissionFields(ctx, versionID, permission.ActionView, fieldPermID)
	if len(matches[0].Roles) != 1 {
		t.Fatal("permission field roles not set")
	}

	if err := s.DeletePermissionField(ctx, pf.ID); err != nil {
		t.Fatal(err)
	}
	matches, _ = s.FindPermissionFields(ctx, versionID, permission.ActionView, fieldPermID)
	if len(matches) != 0 {
		t.Fatal("expected no matches after delete")
	}
}

func TestGetVersionWithContents(t *testing.T) {
	ctx := context.Background()
	s := New()

	entityID := id.NewEntityID()
	v := &version.Version{ID: id.NewVersionID(), EntityID: entityID, VersionNumber: 0}
	if err := s.CreateVersion(ctx, v); err != nil {
		t.Fatal(err)
	}

	f := &field.Field{
		ID:          id.NewFieldID(),
		PermanentID: id.NewFieldPermanentID(),
		VersionID:   v.ID,
		Name:        "name",
		DataType:    field.SingleLineText,
	}
	if err := s.CreateField(ctx, f); err != nil {
		t.Fatal(err)
	}
	p := &permission.Permission{
		ID:        id.NewPermissionID(),
		VersionID: v.ID,
		Action:    permission.ActionView,
		Type:      permission.TypeAllRoles,
	}
	if err := s.CreatePermissions(ctx, []*permission.Permission{p}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetVersionWithContents(ctx, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(got.Fields))
	}
	if len(got.Permissions) != 1 {
		t.Fatalf("expected 1 permission, got %d", len(got.Permissions))
	}
}

func TestChangeLog(t *testing.T) {
	ctx := context.Background()
	s := New()

	entityID := id.NewEntityID()
	old := &audit.Entry{
		ID:        id.NewChangeID(),
		EntityID:  entityID,
		Operation: audit.OpEntityCreated,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	recent := &audit.Entry{
		ID:        id.NewChangeID(),
		EntityID:  entityID,
		Operation: audit.OpFieldCreated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateChange(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateChange(ctx, recent); err != nil {
		t.Fatal(err)
	}

	// Newest first
	list, err := s.ListChanges(ctx, &audit.QueryFilter{EntityID: entityID})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].Operation != audit.OpFieldCreated {
		t.Fatal("expected newest entry first")
	}

	// Filter by operation
	count, _ := s.CountChanges(ctx, &audit.QueryFilter{EntityID: entityID, Operation: audit.OpEntityCreated})
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Purge
	n, err := s.PurgeChanges(ctx, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged, got %d", n)
	}
}
