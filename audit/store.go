package audit

import (
	"context"
	"time"

	"github.com/xraph/blueprint/id"
)

// Store defines persistence operations for change-log entries.
type Store interface {
	// CreateChange persists a new change-log entry.
	CreateChange(ctx context.Context, e *Entry) error

	// GetChange retrieves a change-log entry by ID.
	GetChange(ctx context.Context, changeID id.ChangeID) (*Entry, error)

	// ListChanges returns change-log entries matching the filter, newest
	// first.
	ListChanges(ctx context.Context, filter *QueryFilter) ([]*Entry, error)

	// CountChanges returns the number of entries matching the filter.
	CountChanges(ctx context.Context, filter *QueryFilter) (int64, error)

	// PurgeChanges removes change-log entries older than the given time.
	PurgeChanges(ctx context.Context, before time.Time) (int64, error)
}
