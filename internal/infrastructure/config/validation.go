package config

import (
	"fmt"
	"strings"
)

// reservedRouteChars separate levels, siblings, chunks and params in route segments.
const reservedRouteChars = ";|,="

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "disabled": true, "off": true,
}

// validateConfig validates configuration values and returns every problem at once.
func validateConfig(config *Config) error {
	var validationErrors []string

	if !validLogLevels[config.Logging.Level] {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error, disabled (got %q)", config.Logging.Level))
	}

	if config.Resolver.StabilizeDelayMs < 0 {
		validationErrors = append(validationErrors, "resolver.stabilize_delay_ms must not be negative")
	}
	if config.Resolver.MaxSplits < 0 {
		validationErrors = append(validationErrors, "resolver.max_splits must not be negative")
	}
	if strings.ContainsAny(config.Resolver.FallbackPrefix, reservedRouteChars) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("resolver.fallback_prefix must not contain any of %q", reservedRouteChars))
	}
	for _, key := range config.Resolver.ExclusiveParams {
		if strings.ContainsAny(key, reservedRouteChars) {
			validationErrors = append(validationErrors,
				fmt.Sprintf("resolver.exclusive_params entry %q must not contain any of %q", key, reservedRouteChars))
		}
	}

	if strings.TrimSpace(config.Database.Path) == "" {
		validationErrors = append(validationErrors, "database.path must not be empty")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("%s", strings.Join(validationErrors, "; "))
	}
	return nil
}
