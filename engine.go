package blueprint

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xraph/blueprint/audit"
	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/plugin"
	"github.com/xraph/blueprint/schema"
	"github.com/xraph/blueprint/store"
)

// Engine is the entity versioning and locking engine. It composes the
// naming rules, the field-properties validator, and the version manager
// into the public operation surface, backed by the composite store.
type Engine struct {
	store     store.Store
	validator *schema.Validator
	cache     VersionCache
	plugins   *plugin.Registry
	logger    *slog.Logger
	config    Config
}

// NewEngine creates a new Blueprint engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		validator: schema.New(),
		logger:    slog.Default(),
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("blueprint: store is required")
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// recordChange appends a change-log entry. Audit failures are logged, never
// surfaced: the mutation they describe has already happened.
func (e *Engine) recordChange(ctx context.Context, entityID id.EntityID, userID id.UserID, op audit.Operation, detail string) {
	if !e.config.auditEnabled() {
		return
	}
	scope := scopeFromContext(ctx)
	var appID id.AppID
	if scope.appID != "" {
		if parsed, err := id.ParseAppID(scope.appID); err == nil {
			appID = parsed
		}
	}
	entry := &audit.Entry{
		ID:        id.NewChangeID(),
		AppID:     appID,
		EntityID:  entityID,
		UserID:    userID,
		Operation: op,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.CreateChange(ctx, entry); err != nil {
		e.logger.Warn("blueprint: change log append failed",
			"entity_id", entityID.String(),
			"operation", string(op),
			"error", err)
	}
}
