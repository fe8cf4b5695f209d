package blueprint

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/version"
)

// currentVersionID resolves the working-copy version ID of an entity,
// consulting the version cache first. The current version row's identity
// never changes, so a cache hit is always safe for a live entity.
func (e *Engine) currentVersionID(ctx context.Context, entityID id.EntityID) (id.VersionID, error) {
	if e.cache != nil {
		if versionID, ok := e.cache.Get(ctx, entityID); ok {
			return versionID, nil
		}
	}

	current, err := e.store.GetCurrentVersion(ctx, entityID)
	if err != nil {
		return id.Nil, fmt.Errorf("%w: entity %s has no current version", ErrVersionNotFound, entityID)
	}

	if e.cache != nil {
		e.cache.Set(ctx, entityID, current.ID)
	}
	return current.ID, nil
}

// CreateVersion snapshots an entity's working copy into a new immutable
// version. The snapshot gets the next version number (starting at 1) and
// the optional commit reference; the working copy itself is untouched, so
// the returned version is the working copy as it stood at snapshot time.
func (e *Engine) CreateVersion(ctx context.Context, entityID id.EntityID, commitID *id.CommitID) (*version.Version, error) {
	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}

	versions, err := e.store.ListVersions(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: entity %s has no current version", ErrVersionNotFound, entityID)
	}
	next := versions[len(versions)-1].VersionNumber + 1

	current, err := e.store.GetVersionWithContents(ctx, versions[0].ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshot := &version.Version{
		ID:                id.NewVersionID(),
		EntityID:          entityID,
		VersionNumber:     next,
		CommitID:          commitID,
		Name:              current.Name,
		DisplayName:       current.DisplayName,
		PluralDisplayName: current.PluralDisplayName,
		Description:       current.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := e.store.CreateVersion(ctx, snapshot); err != nil {
		return nil, err
	}

	if err := e.copyVersionContents(ctx, current, snapshot.ID); err != nil {
		return nil, err
	}

	// committing revives a soft-deleted entity
	if ent.DeletedAt != nil {
		ent.DeletedAt = nil
		ent.UpdatedAt = now
		if err := e.store.UpdateEntity(ctx, ent); err != nil {
			return nil, err
		}
	}

	if e.plugins != nil {
		e.plugins.EmitVersionCreated(ctx, snapshot)
	}
	e.recordChange(ctx, entityID, id.Nil, audit.OpVersionCreated, fmt.Sprintf("version %d", next))

	return current, nil
}

// DiscardPendingChanges reverts an entity's working copy to its latest
// committed snapshot, dropping all uncommitted field and permission edits.
// An entity that was never committed has nothing to discard; the call is a
// no-op returning the entity unchanged.
func (e *Engine) DiscardPendingChanges(ctx context.Context, entityID id.EntityID, userID id.UserID) (*entity.Entity, error) {
	ent, err := e.store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}

	versions, err := e.store.ListVersions(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if len(versions) < 2 {
		return ent, nil
	}
	currentID := versions[0].ID
	committed := versions[len(versions)-1]

	source, err := e.store.GetVersionWithContents(ctx, committed.ID)
	if err != nil {
		return nil, err
	}

	if err := e.store.DeletePermissionsByVersion(ctx, currentID); err != nil {
		return nil, err
	}
	if err := e.store.DeleteFieldsByVersion(ctx, currentID); err != nil {
		return nil, err
	}
	if err := e.copyVersionContents(ctx, source, currentID); err != nil {
		return nil, err
	}

	if e.plugins != nil {
		e.plugins.EmitChangesDiscarded(ctx, entityID)
	}
	e.recordChange(ctx, entityID, userID, audit.OpChangesDiscarded, fmt.Sprintf("reverted to version %d", committed.VersionNumber))

	return ent, nil
}

// copyVersionContents clones the fields and permissions of a loaded source
// version into the target version. Field row IDs and version foreign keys
// are regenerated; permanent IDs are carried over verbatim so field
// identity survives the copy. Permission fields targeting a field absent
// from the source are skipped as orphans.
func (e *Engine) copyVersionContents(ctx context.Context, source *version.Version, targetID id.VersionID) error {
	now := time.Now().UTC()

	fields := make([]*field.Field, 0, len(source.Fields))
	byPermanentID := make(map[id.FieldPermanentID]*field.Field, len(source.Fields))
	for _, f := range source.Fields {
		copied := f.Clone()
		copied.ID = id.NewFieldID()
		copied.VersionID = targetID
		copied.CreatedAt = now
		copied.UpdatedAt = now
		fields = append(fields, copied)
		byPermanentID[copied.PermanentID] = copied
	}
	if err := e.store.CreateFields(ctx, fields); err != nil {
		return err
	}

	perms := make([]*permission.Permission, 0, len(source.Permissions))
	for _, p := range source.Permissions {
		copied := p.Clone()
		copied.ID = id.NewPermissionID()
		copied.VersionID = targetID
		copied.CreatedAt = now
		copied.UpdatedAt = now

		kept := copied.Fields[:0]
		for _, pf := range copied.Fields {
			if _, ok := byPermanentID[pf.FieldPermanentID]; !ok {
				continue
			}
			pf.ID = id.NewPermissionFieldID()
			pf.PermissionID = copied.ID
			pf.VersionID = targetID
			pf.CreatedAt = now
			kept = append(kept, pf)
		}
		copied.Fields = kept
		perms = append(perms, copied)
	}
	return e.store.CreatePermissions(ctx, perms)
}

// ListVersions returns all versions of an entity ordered by version number
// ascending; the working copy (number 0) sorts first.
func (e *Engine) ListVersions(ctx context.Context, entityID id.EntityID) ([]*version.Version, error) {
	return e.store.ListVersions(ctx, entityID)
}

// GetVersionCommitID returns the commit reference of a version, or nil for
// the working copy and for snapshots created without a commit.
func (e *Engine) GetVersionCommitID(ctx context.Context, versionID id.VersionID) (*id.CommitID, error) {
	v, err := e.store.GetVersion(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
	}
	return v.CommitID, nil
}
