package blueprint

import (
	"log/slog"

	"github.com/xraph/blueprint/plugin"
	"github.com/xraph/blueprint/schema"
	"github.com/xraph/blueprint/store"
)

// Option is a functional option for the Engine.
type Option func(*Engine)

// WithStore sets the composite store.
func WithStore(s store.Store) Option { return func(e *Engine) { e.store = s } }

// WithValidator sets the field-properties validator.
func WithValidator(v *schema.Validator) Option { return func(e *Engine) { e.validator = v } }

// WithCache sets the current-version resolution cache.
func WithCache(c VersionCache) Option { return func(e *Engine) { e.cache = c } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }

// WithPlugin registers a plugin with the engine.
func WithPlugin(x plugin.Plugin) Option {
	return func(e *Engine) {
		if e.plugins == nil {
			e.plugins = plugin.NewRegistry(e.logger)
		}
		e.plugins.Register(x)
	}
}
