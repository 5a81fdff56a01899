package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "negative stabilize delay",
			mutate:  func(c *Config) { c.Resolver.StabilizeDelayMs = -5 },
			wantErr: "resolver.stabilize_delay_ms",
		},
		{
			name:    "exclusive key with separator",
			mutate:  func(c *Config) { c.Resolver.ExclusiveParams = []string{"a|b"} },
			wantErr: "resolver.exclusive_params",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = " " },
			wantErr: "database.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Database.Path = "/tmp/panectl.sqlite"
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
