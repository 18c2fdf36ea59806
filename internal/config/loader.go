package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("NEURALWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings for env vars that don't follow the section naming.
	if err := v.BindEnv("logging.level", "NEURALWEB_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind NEURALWEB_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "NEURALWEB_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind NEURALWEB_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", m.viper.ConfigFileUsed(), err)
	}
	if err := ensureDatabasePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if createErr := m.createDefaultConfig(); createErr != nil {
				return fmt.Errorf("failed to create default config: %w", createErr)
			}
			if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
				return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
			}
			return nil
		}
		return fmt.Errorf("failed to read config file at %s: %w", m.viper.ConfigFileUsed(), err)
	}
	return nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
		config.Logging.Level = strings.ToLower(config.Logging.Level)
	default:
		config.Logging.Level = "info"
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "console", "auto":
		config.Logging.Format = strings.ToLower(config.Logging.Format)
	default:
		config.Logging.Format = "auto"
	}

	config.Homepage = strings.TrimSpace(config.Homepage)
	if config.Homepage == "" {
		config.Homepage = DefaultConfig().Homepage
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the path of the configuration file in use.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// GetValue resolves a raw configuration value by dotted key.
func (m *Manager) GetValue(key string) any {
	return m.viper.Get(key)
}

func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// First run also drops the editor-facing schema next to the config.
	if err := GenerateSchemaFile(); err != nil {
		return err
	}

	return nil
}

// setDefaults seeds Viper with the default values so a partial config file
// still unmarshals completely.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("homepage", defaults.Homepage)

	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)
	m.viper.SetDefault("window.chrome_band_height", defaults.Window.ChromeBandHeight)

	m.viper.SetDefault("surface.script_isolation", defaults.Surface.ScriptIsolation)
	m.viper.SetDefault("surface.hardware_accel", defaults.Surface.HardwareAccel)
	m.viper.SetDefault("surface.load_delay_ms", defaults.Surface.LoadDelayMs)

	m.viper.SetDefault("session.auto_restore", defaults.Session.AutoRestore)
	m.viper.SetDefault("session.snapshot_interval_ms", defaults.Session.SnapshotIntervalMs)

	m.viper.SetDefault("history.revisit_window_ms", defaults.History.RevisitWindowMs)
	m.viper.SetDefault("history.top_sites_limit", defaults.History.TopSitesLimit)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}
