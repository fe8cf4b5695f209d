package blueprint

import (
	"context"

	"github.com/xraph/blueprint/id"
)

// VersionCache caches entity-id to current-version-id resolution. The
// current version row's identity never changes over an entity's lifetime,
// so entries only need invalidation when the entity itself is deleted.
type VersionCache interface {
	// Get returns the cached current-version ID for an entity, if available.
	Get(ctx context.Context, entityID id.EntityID) (id.VersionID, bool)

	// Set stores the current-version ID for an entity.
	Set(ctx context.Context, entityID id.EntityID, versionID id.VersionID)

	// Invalidate removes the cached entry for an entity.
	Invalidate(ctx context.Context, entityID id.EntityID)
}
