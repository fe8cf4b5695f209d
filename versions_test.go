package blueprint

import (
	"context"
	"testing"

	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
)

func TestCreateVersion_Numbering(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	returned, err := eng.CreateVersion(ctx, entID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if returned.VersionNumber != 0 {
		t.Fatalf("expected the working copy back, got version %d", returned.VersionNumber)
	}

	if _, err := eng.CreateVersion(ctx, entID, nil); err != nil {
		t.Fatal(err)
	}

	versions, err := eng.ListVersions(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 3 {
		t.Fatalf("expected versions 0,1,2 after two commits, got %d", len(versions))
	}
	for i, v := range versions {
		if v.VersionNumber != i {
			t.Fatalf("expected version number %d at index %d, got %d", i, i, v.VersionNumber)
		}
	}
}

func TestCreateVersion_SnapshotContents(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	f, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "email", DisplayName: "Email", DataType: field.Email, Required: true,
	}, userID)
	if err != nil {
		t.Fatal(err)
	}

	commitID := id.NewCommitID()
	if _, err := eng.CreateVersion(ctx, entID, &commitID); err != nil {
		t.Fatal(err)
	}

	versions, err := eng.ListVersions(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	snapshot, err := s.GetVersionWithContents(ctx, versions[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.VersionNumber != 1 {
		t.Fatalf("expected snapshot 1, got %d", snapshot.VersionNumber)
	}
	if snapshot.CommitID == nil || *snapshot.CommitID != commitID {
		t.Fatal("expected commit id recorded on the snapshot")
	}
	if len(snapshot.Fields) != 1 {
		t.Fatalf("expected one copied field, got %d", len(snapshot.Fields))
	}
	copied := snapshot.Fields[0]
	if copied.PermanentID != f.PermanentID {
		t.Fatal("permanent id must be preserved verbatim in the snapshot")
	}
	if copied.ID == f.ID {
		t.Fatal("copied field must get a fresh row id")
	}
	if copied.VersionID != snapshot.ID {
		t.Fatal("copied field must belong to the snapshot version")
	}
	if copied.Name != "email" || !copied.Required {
		t.Fatalf("copied field contents diverged: %+v", copied)
	}

	got, err := eng.GetVersionCommitID(ctx, snapshot.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != commitID {
		t.Fatal("expected GetVersionCommitID to resolve the commit")
	}

	// The working copy keeps its own rows.
	current, err := eng.GetFields(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if len(current) != 1 || current[0].ID != f.ID {
		t.Fatal("expected the working copy to keep its original field row")
	}
}

func TestCreateVersion_RevivesDeletedEntity(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	if _, err := eng.DeleteEntity(ctx, entID, userID); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.CreateVersion(ctx, entID, nil); err != nil {
		t.Fatal(err)
	}

	ent, err := s.GetEntity(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if ent.DeletedAt != nil {
		t.Fatal("expected commit to clear the deleted marker")
	}
}

func TestDiscard_NoopWithoutSnapshot(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	appID := id.NewAppID()
	userID := id.NewUserID()
	entID := mustCreateEntity(t, eng, appID, userID, "Customer")

	if _, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "email", DisplayName: "Email", DataType: field.Email,
	}, userID); err != nil {
		t.Fatal(err)
	}

	ent, err := eng.DiscardPendingChanges(ctx, entID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if ent.ID != entID {
		t.Fatal("expected the entity back from a no-op discard")
	}

	// Nothing was committed, so nothing is rolled back.
	fields, err := eng.GetFields(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 1 {
		t.Fatalf("expected pending field to survive, got %d fields", len(fields))
	}
}

func TestDiscard_RestoresLastSnapshot(t *testing.T) {
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
	if _, err := eng.CreateVersion(ctx, entID, nil); err != nil {
		t.Fatal(err)
	}

	// Pending edits on the working copy.
	if _, err := eng.CreateField(ctx, entID, &CreateFieldInput{
		Name: "phone", DisplayName: "Phone", DataType: field.SingleLineText,
		Properties: map[string]any{"maxLength": 32},
	}, userID); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.UpdateField(ctx, f.ID, &UpdateFieldInput{
		Name: "workEmail", DisplayName: "Work Email", DataType: field.Email,
	}, userID); err != nil {
		t.Fatal(err)
	}

	if _, err := eng.DiscardPendingChanges(ctx, entID, userID); err != nil {
		t.Fatal(err)
	}

	fields, err := eng.GetFields(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 1 {
		t.Fatalf("expected snapshot state restored, got %d fields", len(fields))
	}
	if fields[0].Name != "email" {
		t.Fatalf("expected field rename reverted, got %q", fields[0].Name)
	}
	if fields[0].PermanentID != f.PermanentID {
		t.Fatal("permanent id must survive discard")
	}

	// Discard with no further edits leaves the same state.
	if _, err := eng.DiscardPendingChanges(ctx, entID, userID); err != nil {
		t.Fatal(err)
	}
	fields, err = eng.GetFields(ctx, entID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 1 || fields[0].Name != "email" {
		t.Fatal("expected discard to be idempotent")
	}
}
