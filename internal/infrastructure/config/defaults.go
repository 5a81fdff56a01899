package config

import "github.com/bnema/panectl/internal/domain/routepath"

const (
	defaultStabilizeDelayMs = 50
	defaultTypeCacheSize    = 512
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	exclusive := make([]string, len(routepath.DefaultExclusiveParams))
	copy(exclusive, routepath.DefaultExclusiveParams)

	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Resolver: ResolverConfig{
			ExclusiveParams:  exclusive,
			FallbackPrefix:   "__edit__",
			StabilizeDelayMs: defaultStabilizeDelayMs,
			MaxSplits:        0,
			TypeCacheSize:    defaultTypeCacheSize,
		},
		Structure: StructureConfig{
			Watch: true,
		},
	}
}
