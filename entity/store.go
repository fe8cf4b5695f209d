package entity

import (
	"context"

	"github.com/xraph/blueprint/id"
)

// Store defines persistence operations for entities.
type Store interface {
	// CreateEntity persists a new entity.
	CreateEntity(ctx context.Context, e *Entity) error

	// GetEntity retrieves an entity by ID, deleted or not.
	GetEntity(ctx context.Context, entityID id.EntityID) (*Entity, error)

	// FindEntity returns the first entity matching the filter, or the
	// store's not-found error when nothing matches.
	FindEntity(ctx context.Context, filter *ListFilter) (*Entity, error)

	// UpdateEntity persists changes to an entity.
	UpdateEntity(ctx context.Context, e *Entity) error

	// ListEntities returns entities matching the filter.
	ListEntities(ctx context.Context, filter *ListFilter) ([]*Entity, error)

	// CountEntities returns the number of entities matching the filter.
	CountEntities(ctx context.Context, filter *ListFilter) (int64, error)
}
