package extension

// Config holds the Till extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.till" or "till" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for till routes (default: "/till").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// Currency is the engine currency (default: "usd"). Every item price
	// and credit limit must use it.
	Currency string `json:"currency" mapstructure:"currency" yaml:"currency"`

	// Driver selects the store backend built from a grove.DB provided via
	// WithGroveDB: "sqlite" or "postgres" (default: "sqlite"). Ignored
	// when a store is set programmatically.
	Driver string `json:"driver" mapstructure:"driver" yaml:"driver"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Currency: "usd",
		Driver:   "sqlite",
	}
}
