package plugin

import (
	"context"
	"log/slog"
	"testing"

	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/version"
)

// testPlugin implements Plugin + EntityCreated + VersionCreated.
type testPlugin struct {
	entityCreatedCalled  bool
	versionCreatedCalled bool
}

func (t *testPlugin) Name() string { return "test-plugin" }

func (t *testPlugin) OnEntityCreated(_ context.Context, _ *entity.Entity) error {
	t.entityCreatedCalled = true
	return nil
}

func (t *testPlugin) OnVersionCreated(_ context.Context, _ *version.Version) error {
	t.versionCreatedCalled = true
	return nil
}

// minimalPlugin only implements Plugin (no hooks).
type minimalPlugin struct{}

func (m *minimalPlugin) Name() string { return "minimal" }

func TestRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	tp := &testPlugin{}
	reg.Register(tp)
	reg.Register(&minimalPlugin{})

	if len(reg.Plugins()) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(reg.Plugins()))
	}

	// Should dispatch EntityCreated to testPlugin only.
	reg.EmitEntityCreated(ctx, &entity.Entity{ID: id.NewEntityID(), Name: "Customer"})
	if !tp.entityCreatedCalled {
		t.Fatal("OnEntityCreated was not called")
	}

	// Should dispatch VersionCreated.
	reg.EmitVersionCreated(ctx, &version.Version{ID: id.NewVersionID()})
	if !tp.versionCreatedCalled {
		t.Fatal("OnVersionCreated was not called")
	}

	// Should not panic on hooks with no listeners.
	reg.EmitEntityDeleted(ctx, id.NewEntityID())
	reg.EmitLockReleased(ctx, id.NewEntityID())
	reg.EmitShutdown(ctx)
}
