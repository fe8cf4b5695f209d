package extension

// Config holds the Blueprint extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.blueprint" or "blueprint" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the extension resolves this named database and auto-constructs
	// the appropriate store based on the driver type (pg/sqlite).
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{}
}
