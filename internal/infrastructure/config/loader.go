package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/panectl/internal/logging"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	file      string // explicit config file, empty to search the XDG directory
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager reading config.toml from the
// XDG config directory.
func NewManager() (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	return newManager(v, "")
}

// NewManagerForFile creates a configuration manager bound to one file.
// The file is created with defaults when missing.
func NewManagerForFile(path string) (*Manager, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	return newManager(v, path)
}

func newManager(v *viper.Viper, file string) (*Manager, error) {
	// PANECTL_RESOLVER_MAX_SPLITS, PANECTL_DATABASE_PATH, ...
	v.SetEnvPrefix("PANECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "PANECTL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind PANECTL_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "PANECTL_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind PANECTL_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		file:      file,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == "" {
		if err := EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to ensure directories: %w", err)
		}
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.buildConfig()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// buildConfig unmarshals, completes and validates the current viper state.
func (m *Manager) buildConfig() (*Config, error) {
	config, err := m.unmarshalConfig()
	if err != nil {
		return nil, err
	}
	if err := m.ensurePaths(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.configFile(), err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.configFile(),
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf(
			"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
			rereadErr,
		)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.configFile(),
			err,
		)
	}
	return config, nil
}

func (m *Manager) ensurePaths(config *Config) error {
	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}
	if config.Structure.Path == "" {
		config.Structure.Path = filepath.Join(filepath.Dir(m.configFile()), structureName)
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	switch strings.ToLower(strings.TrimSpace(config.Logging.Format)) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = "console"
	}

	seen := make(map[string]struct{}, len(config.Resolver.ExclusiveParams))
	exclusive := make([]string, 0, len(config.Resolver.ExclusiveParams))
	for _, key := range config.Resolver.ExclusiveParams {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		exclusive = append(exclusive, key)
	}
	config.Resolver.ExclusiveParams = exclusive

	if config.Resolver.FallbackPrefix == "" {
		config.Resolver.FallbackPrefix = DefaultConfig().Resolver.FallbackPrefix
	}
	if config.Resolver.TypeCacheSize <= 0 {
		config.Resolver.TypeCacheSize = defaultTypeCacheSize
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	cfg := *m.config
	cfg.Resolver.ExclusiveParams = slices.Clone(m.config.Resolver.ExclusiveParams)
	return &cfg
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) configFile() string {
	if m.file != "" {
		return m.file
	}
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	configFile, err := GetConfigFile()
	if err != nil {
		return "config.toml"
	}
	return configFile
}

// createDefaultConfig writes the defaults to the config file.
func (m *Manager) createDefaultConfig() error {
	configFile := m.configFile()
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), configFile); err != nil {
		return err
	}
	if m.file == "" {
		m.viper.SetConfigFile(configFile)
	}

	log := logging.NewFromEnv()
	log.Info().Str("file", configFile).Msg("created default configuration file")
	return nil
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	m.viper.SetDefault("resolver.exclusive_params", defaults.Resolver.ExclusiveParams)
	m.viper.SetDefault("resolver.fallback_prefix", defaults.Resolver.FallbackPrefix)
	m.viper.SetDefault("resolver.stabilize_delay_ms", defaults.Resolver.StabilizeDelayMs)
	m.viper.SetDefault("resolver.max_splits", defaults.Resolver.MaxSplits)
	m.viper.SetDefault("resolver.type_cache_size", defaults.Resolver.TypeCacheSize)

	m.viper.SetDefault("structure.watch", defaults.Structure.Watch)
	// structure.path and database.path are completed in ensurePaths
}

// StabilizeDelay returns the loading-state hold time.
func (c *Config) StabilizeDelay() time.Duration {
	return time.Duration(c.Resolver.StabilizeDelayMs) * time.Millisecond
}
