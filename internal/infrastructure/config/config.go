// Package config loads panectl configuration from TOML via viper.
package config

// Config represents the complete configuration for panectl.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging" json:"logging"`
	Resolver  ResolverConfig  `mapstructure:"resolver" toml:"resolver" json:"resolver"`
	Structure StructureConfig `mapstructure:"structure" toml:"structure" json:"structure"`
	Database  DatabaseConfig  `mapstructure:"database" toml:"database" json:"database"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error, disabled.
	Level string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	// Format is json or console.
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=json,enum=console"`
}

// ResolverConfig tunes pane resolution.
type ResolverConfig struct {
	// ExclusiveParams are params a split pane never inherits from the primary pane of its level.
	ExclusiveParams []string `mapstructure:"exclusive_params" toml:"exclusive_params" json:"exclusive_params"`
	// FallbackPrefix marks pane ids that open a document editor without a structure node.
	FallbackPrefix string `mapstructure:"fallback_prefix" toml:"fallback_prefix" json:"fallback_prefix"`
	// StabilizeDelayMs holds back loading-state updates for this many milliseconds (0 disables).
	StabilizeDelayMs int `mapstructure:"stabilize_delay_ms" toml:"stabilize_delay_ms" json:"stabilize_delay_ms" jsonschema:"minimum=0"`
	// MaxSplits limits the panes per level (0 means unlimited).
	MaxSplits int `mapstructure:"max_splits" toml:"max_splits" json:"max_splits" jsonschema:"minimum=0"`
	// TypeCacheSize bounds the in-memory document type cache.
	TypeCacheSize int `mapstructure:"type_cache_size" toml:"type_cache_size" json:"type_cache_size" jsonschema:"minimum=1"`
}

// StructureConfig locates the view definition file.
type StructureConfig struct {
	// Path to the structure TOML file. Defaults to structure.toml next to config.toml.
	Path string `mapstructure:"path" toml:"path" json:"path,omitempty"`
	// Watch reloads the structure when the file changes.
	Watch bool `mapstructure:"watch" toml:"watch" json:"watch"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	// Path to the SQLite database. Defaults to the XDG data directory.
	Path string `mapstructure:"path" toml:"path" json:"path,omitempty"`
}
