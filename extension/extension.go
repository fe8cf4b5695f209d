// Package extension provides a Forge extension entry point for Blueprint.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/blueprint"
	"github.com/xraph/blueprint/plugin"
	"github.com/xraph/blueprint/store"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "blueprint"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Entity schema versioning engine (fields, permissions, immutable snapshots)"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Blueprint as a Forge extension.
type Extension struct {
	config        Config
	eng           *blueprint.Engine
	logger        *slog.Logger
	blueprintOpts []blueprint.Option
	plugins       []plugin.Plugin
}

// New creates a Blueprint Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Engine returns the underlying Blueprint engine.
func (e *Extension) Engine() *blueprint.Engine { return e.eng }

// Register implements [forge.Extension]. It initializes the engine and
// registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*blueprint.Engine, error) {
		return e.eng, nil
	}); err != nil {
		return fmt.Errorf("blueprint: register engine in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := make([]blueprint.Option, 0, len(e.blueprintOpts)+len(e.plugins)+1)
	opts = append(opts, blueprint.WithLogger(logger))

	// Try to resolve store from DI container, fall back to option-provided store.
	if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
		opts = append(opts, blueprint.WithStore(s))
	}

	// Append user-provided options (may override store).
	opts = append(opts, e.blueprintOpts...)

	for _, x := range e.plugins {
		opts = append(opts, blueprint.WithPlugin(x))
	}

	eng, err := blueprint.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("blueprint: create engine: %w", err)
	}
	e.eng = eng

	return nil
}

// Start begins the blueprint engine and runs migrations if enabled.
func (e *Extension) Start(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("blueprint: extension not initialized")
	}

	if !e.config.DisableMigrate {
		s := e.eng.Store()
		if s != nil {
			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("blueprint: migration failed: %w", err)
			}
		}
	}

	return e.eng.Start(ctx)
}

// Stop gracefully shuts down the blueprint engine.
func (e *Extension) Stop(ctx context.Context) error {
	if e.eng == nil {
		return nil
	}
	return e.eng.Stop(ctx)
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("blueprint: extension not initialized")
	}
	s := e.eng.Store()
	if s == nil {
		return errors.New("blueprint: no store configured")
	}
	return s.Ping(ctx)
}
