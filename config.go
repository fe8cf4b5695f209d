package blueprint

import "time"

// Config holds configuration for the Blueprint engine.
type Config struct {
	// CacheTTL is the time-to-live for cached current-version lookups.
	// Zero means no caching.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// SeedDefaultEntities controls whether CreateDefaultEntities seeds the
	// built-in user entity. Defaults to true.
	SeedDefaultEntities *bool `json:"seed_default_entities,omitempty"`

	// AuditChanges controls whether mutations append change-log entries.
	// Defaults to true.
	AuditChanges *bool `json:"audit_changes,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	t := true
	return Config{
		SeedDefaultEntities: &t,
		AuditChanges:        &t,
	}
}

func (c Config) seedEnabled() bool  { return c.SeedDefaultEntities == nil || *c.SeedDefaultEntities }
func (c Config) auditEnabled() bool { return c.AuditChanges == nil || *c.AuditChanges }
