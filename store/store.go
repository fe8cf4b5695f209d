// Package store defines the aggregate persistence interface. Each record
// kind (entity, version, field, permission, audit) defines its own store
// interface; the composite Store composes them all.
// Backends: Postgres, SQLite, and Memory.
package store

import (
	"context"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/entity"
	"github.com/xraph/blueprint/field"
	"github.com/xraph/blueprint/permission"
	"github.com/xraph/blueprint/version"
)

// Store is the aggregate persistence interface.
// Each record-kind store is a composable interface; a single backend
// (postgres, sqlite, memory) implements all of them.
type Store interface {
	entity.Store
	version.Store
	field.Store
	permission.Store
	audit.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
