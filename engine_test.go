package blueprint

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/naming"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/store/memory"
)

func newTestEngine(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()
	s := memory.New()
	eng, err := NewEngine(WithStore(s))
	if err != nil {
		t.Fatal(err)
	}
	return eng, s
}

func mustCreateEntity(t *testing.T, eng *Engine, appID id.AppID, userID id.UserID, name string) id.EntityID {
	t.Helper()
	ent, err := eng.CreateEntity(context.Background(), &CreateEntityInput{
		AppID:             appID,
		Name:              name,
		DisplayName:       name,
		PluralDisplayName: name + "s",
	}, userID)
	if err != nil {
		t.Fatal(err)
	}
	return ent.ID
}

func TestNewEngine_RequiresStore(t *testing.T) {
	_, err := NewEngine()
	if err == nil {
		t.Fatal("expected error when store is nil")
	}
}

func TestCreateEntity_SeedsCurrentVersionAndPermissions(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()

	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	current, err := s.GetCurrentVersion(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if current.VersionNumber != 0 {
		t.Fatalf("expected current version number 0, got %d", current.VersionNumber)
	}
	if current.Name != "Customer" {
		t.Fatalf("expected denormalized name on version, got %q", current.Name)
	}

	perms, err := eng.GetPermissions(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if len(perms) != len(permission.Actions()) {
		t.Fatalf("expected %d default permissions, got %d", len(permission.Actions()), len(perms))
	}
	for _, p := range perms {
		if p.Type != permission.TypeAllRoles {
			t.Fatalf("expected default permission type AllRoles, got %s for %s", p.Type, p.Action)
		}
	}
}

func TestCreateEntity_NameRules(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()

	_, err := eng.CreateEntity(ctx, &CreateEntityInput{
		AppID: appID, Name: "9lives", DisplayName: "x", PluralDisplayName: "xs",
	}, userID)
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for leading digit, got %v", err)
	}

	mustCreateEntity(t, eng, appID, userID, "Order")
	_, err = eng.CreateEntity(ctx, &CreateEntityInput{
		AppID: appID, Name: "Order", DisplayName: "Order", PluralDisplayName: "Orders",
	}, userID)
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken for duplicate name, got %v", err)
	}

	// Same name in another app is fine.
	otherApp := id.NewAppID()
	mustCreateEntity(t, eng, otherApp, userID, "Order")
}

func TestCreateDefaultEntities(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()

	seeded, err := eng.CreateDefaultEntities(ctx, appID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(seeded) != 1 {
		t.Fatalf("expected one seeded entity, got %d", len(seeded))
	}
	if seeded[0].Name != naming.UserEntityName {
		t.Fatalf("expected seeded %s entity, got %q", naming.UserEntityName, seeded[0].Name)
	}

	fields, err := eng.GetFields(ctx, seeded[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	byName := map[string]field.DataType{}
	for _, f := range fields {
		byName[f.Name] = f.DataType
	}
	if byName["username"] != field.Username || byName["password"] != field.Password {
		t.Fatalf("expected system username/password fields, got %v", byName)
	}
	if byName["roles"] != field.Roles {
		t.Fatalf("expected roles field, got %v", byName)
	}
}

func TestFieldLifecycle(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	f, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name:        "email",
		DisplayName: "Email",
		DataType:    field.Email,
		Required:    true,
	}, userID)
	if err != nil {
		t.Fatal(err)
	}
	if f.PermanentID.IsNil() {
		t.Fatal("expected a permanent id on the new field")
	}

	// Duplicate name on the same version is rejected.
	_, err = eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "email", DisplayName: "Email", DataType: field.Email,
	}, userID)
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	updated, err := eng.UpdateField(ctx, f.ID, &UpdateFieldInput{
		Name:        "contactEmail",
		DisplayName: "Contact Email",
		DataType:    field.Email,
		Required:    false,
	}, userID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "contactEmail" {
		t.Fatalf("expected renamed field, got %q", updated.Name)
	}
	if updated.PermanentID != f.PermanentID {
		t.Fatal("permanent id must survive updates")
	}

	if _, err := eng.DeleteField(ctx, f.ID, userID); err != nil {
		t.Fatal(err)
	}
	fields, err := eng.GetFields(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 0 {
		t.Fatalf("expected no fields after delete, got %d", len(fields))
	}
}

func TestFieldNameValidation(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()

	entID := mustCreateEntity(t, eng, appID, userID, "Customer")
	_, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "first name", DisplayName: "x", DataType: field.Email,
	}, userID)
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for space, got %v", err)
	}

	// Reserved names only bind on the user entity.
	seeded, err := eng.CreateDefaultEntities(ctx, appID, userID)
	if err != nil {
		t.Fatal(err)
	}
	_, err = eng.CreateField(ctx, seeded[0].ID, &CreateFieldInput{
		Name: "Id", DisplayName: "Id", DataType: field.Email,
	}, userID)
	if !errors.Is(err, ErrReservedName) {
		t.Fatalf("expected ErrReservedName on user entity, got %v", err)
	}

	if _, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "id_ref", DisplayName: "Id Ref", DataType: field.Email,
	}, userID); err != nil {
		t.Fatalf("non-reserved name on plain entity should pass: %v", err)
	}
}

func TestSystemDataTypeGuard(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	_, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "myId", DisplayName: "My Id", DataType: field.ID,
	}, userID)
	if !errors.Is(err, ErrSystemDataType) {
		t.Fatalf("expected ErrSystemDataType on create, got %v", err)
	}

	f, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "nickname", DisplayName: "Nickname", DataType: field.Email,
	}, userID)
	if err != nil {
		t.Fatal(err)
	}
	_, err = eng.UpdateField(ctx, f.ID, &UpdateFieldInput{
		Name: "nickname", DisplayName: "Nickname", DataType: field.Roles,
	}, userID)
	if !errors.Is(err, ErrSystemDataType) {
		t.Fatalf("expected ErrSystemDataType on update, got %v", err)
	}

	// Seeded system fields cannot be deleted or edited.
	seeded, err := eng.CreateDefaultEntities(ctx, appID, userID)
	if err != nil {
		t.Fatal(err)
	}
	fields, err := eng.GetFields(ctx, seeded[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, sf := range fields {
		if sf.Name != "password" {
			continue
		}
		if _, err := eng.DeleteField(ctx, sf.ID, userID); !errors.Is(err, ErrSystemDataType) {
			t.Fatalf("expected ErrSystemDataType deleting system field, got %v", err)
		}
	}
}

func TestValidateAllFieldsExist(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	missing, err := eng.ValidateAllFieldsExist(ctx, entID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 0 {
		t.Fatalf("empty input must report nothing missing, got %v", missing)
	}

	if _, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "email", DisplayName: "Email", DataType: field.Email,
	}, userID); err != nil {
		t.Fatal(err)
	}

	missing, err = eng.ValidateAllFieldsExist(ctx, entID, []string{"email", "phone", "phone"})
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 1 {
		t.Fatalf("expected one missing name, got %v", missing)
	}
	if _, ok := missing["phone"]; !ok {
		t.Fatalf("expected phone to be missing, got %v", missing)
	}
}

func TestDeleteEntity_ManglesNameAndFreesIt(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	deleted, err := eng.DeleteEntity(ctx, entID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted.DeletedAt == nil {
		t.Fatal("expected DeletedAt to be set")
	}
	want := naming.PrepareDeletedItemName("Customer", entID)
	if deleted.Name != want {
		t.Fatalf("expected mangled name %q, got %q", want, deleted.Name)
	}

	// The original name is reusable immediately.
	mustCreateEntity(t, eng, appID, userID, "Customer")
}

func TestLocking(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	alice := id.NewUserID()
	bob := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, alice, "Customer")

	locked, err := eng.AcquireLock(ctx, entID, alice)
	if err != nil {
		t.Fatal(err)
	}
	if locked.LockedByUserID == nil || *locked.LockedByUserID != alice {
		t.Fatal("expected lock held by first user")
	}
	if locked.LockedAt == nil {
		t.Fatal("expected LockedAt to be set")
	}

	// The lock is advisory: a second acquire overwrites the holder.
	relocked, err := eng.AcquireLock(ctx, entID, bob)
	if err != nil {
		t.Fatal(err)
	}
	if relocked.LockedByUserID == nil || *relocked.LockedByUserID != bob {
		t.Fatal("expected lock holder to be overwritten")
	}

	released, err := eng.ReleaseLock(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if released.LockedByUserID != nil || released.LockedAt != nil {
		t.Fatal("expected lock cleared after release")
	}

	// Deleted entities cannot be locked.
	if _, err := eng.DeleteEntity(ctx, entID, alice); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AcquireLock(ctx, entID, alice); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound locking deleted entity, got %v", err)
	}
}

func TestIsEntityInSameApp(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	otherApp := id.NewAppID()
	userID := id.NewUserID()

	a := mustCreateEntity(t, eng, appID, userID, "Customer")
	b := mustCreateEntity(t, eng, appID, userID, "Order")
	c := mustCreateEntity(t, eng, otherApp, userID, "Invoice")

	ok, missing, err := eng.IsEntityInSameApp(ctx, appID, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || len(missing) != 0 {
		t.Fatalf("expected all entities in app, missing %v", missing)
	}

	ok, missing, err = eng.IsEntityInSameApp(ctx, appID, a, c)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected mismatch for foreign entity")
	}
	if len(missing) != 1 || missing[0] != c {
		t.Fatalf("expected %s reported, got %v", c, missing)
	}
}

func TestPermissionManagement(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	p, err := eng.UpdatePermission(ctx, entID, permission.ActionView, permission.TypeGranular, userID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != permission.TypeGranular {
		t.Fatalf("expected Granular, got %s", p.Type)
	}

	roleID := id.NewRoleID()
	p, err = eng.UpdatePermissionRoles(ctx, entID, permission.ActionView, []id.RoleID{roleID}, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Roles) != 1 || p.Roles[0] != roleID {
		t.Fatalf("expected one permission role, got %v", p.Roles)
	}
}

func TestPermissionFields(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	f, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "email", DisplayName: "Email", DataType: field.Email,
	}, userID)
	if err != nil {
		t.Fatal(err)
	}

	ref := &PermissionFieldRef{
		EntityID:         entID,
		Action:           permission.ActionView,
		FieldPermanentID: f.PermanentID,
	}

	// The target field must exist on the current version.
	bogus := &PermissionFieldRef{
		EntityID:         entID,
		Action:           permission.ActionView,
		FieldPermanentID: id.NewFieldPermanentID(),
	}
	if _, err := eng.AddPermissionField(ctx, bogus, userID); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound for unknown field, got %v", err)
	}

	pf, err := eng.AddPermissionField(ctx, ref, userID)
	if err != nil {
		t.Fatal(err)
	}
	if pf.FieldPermanentID != f.PermanentID {
		t.Fatal("expected override to point at the field's permanent id")
	}

	roleID := id.NewRoleID()
	pf, err = eng.UpdatePermissionFieldRoles(ctx, ref, []id.RoleID{roleID}, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(pf.Roles) != 1 || pf.Roles[0] != roleID {
		t.Fatalf("expected one override role, got %v", pf.Roles)
	}

	if _, err := eng.DeletePermissionField(ctx, ref, userID); err != nil {
		t.Fatal(err)
	}

	// Zero matches is ambiguous, not a silent no-op.
	if _, err := eng.DeletePermissionField(ctx, ref, userID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}
