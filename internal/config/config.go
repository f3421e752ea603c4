package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/bnema/chromekit/internal/domain/entity"
)

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ChromeConfig holds the fixed chrome geometry.
type ChromeConfig struct {
	HeaderHeight    float64 `mapstructure:"header_height" yaml:"header_height"`
	FooterHeight    float64 `mapstructure:"footer_height" yaml:"footer_height"`
	StatusBarHeight float64 `mapstructure:"status_bar_height" yaml:"status_bar_height"`
	ReaderBarHeight float64 `mapstructure:"reader_bar_height" yaml:"reader_bar_height"`
	SnackbarHeight  float64 `mapstructure:"snackbar_height" yaml:"snackbar_height"`
}

// CacheConfig controls the persisted extraction cache.
type CacheConfig struct {
	MaxAgeHours int `mapstructure:"max_age_hours" yaml:"max_age_hours"`
}

// DatabaseConfig points at the SQLite file backing the caches.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Config is the root configuration document.
type Config struct {
	Logging  LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Chrome   ChromeConfig       `mapstructure:"chrome" yaml:"chrome"`
	Reader   entity.ReaderStyle `mapstructure:"reader" yaml:"reader"`
	Cache    CacheConfig        `mapstructure:"cache" yaml:"cache"`
	Database DatabaseConfig     `mapstructure:"database" yaml:"database"`
}

// Manager handles configuration loading, persistence and watching.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a manager reading from the XDG config directory.
func NewManager() (*Manager, error) {
	if err := EnsureDirectories(); err != nil {
		return nil, err
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("get config directory: %w", err)
	}
	return NewManagerAt(configDir), nil
}

// NewManagerAt creates a manager reading config.yaml from dir. Used
// directly by tests.
func NewManagerAt(dir string) *Manager {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("CHROMEKIT")
	v.AutomaticEnv()

	return &Manager{viper: v}
}

// Load reads the configuration file, creating a default one when none
// exists yet.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if err := m.writeDefaultConfig(); err != nil {
				return fmt.Errorf("create default config: %w", err)
			}
		} else {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	return m.unmarshalLocked()
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg := *m.config
	return &cfg
}

// ReaderStyle returns the persisted reader style.
func (m *Manager) ReaderStyle() entity.ReaderStyle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return entity.DefaultReaderStyle()
	}
	return m.config.Reader.Normalize()
}

// SaveReaderStyle persists the reader style record to the config file.
func (m *Manager) SaveReaderStyle(style entity.ReaderStyle) error {
	style = style.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.viper.Set("reader.font_family", style.FontFamily)
	m.viper.Set("reader.font_size", style.FontSize)
	m.viper.Set("reader.theme", string(style.Theme))

	if m.config != nil {
		m.config.Reader = style
	}

	if err := m.viper.WriteConfig(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Watch starts watching the config file and reloads on change.
// Registered callbacks receive the fresh configuration.
func (m *Manager) Watch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching {
		return
	}

	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		m.mu.Lock()
		if err := m.unmarshalLocked(); err != nil {
			m.mu.Unlock()
			return
		}
		cfg := *m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.Unlock()

		for _, cb := range callbacks {
			cb(&cfg)
		}
	})
	m.viper.WatchConfig()
	m.watching = true
}

// OnConfigChange registers a callback fired after each successful
// reload triggered by Watch.
func (m *Manager) OnConfigChange(fn func(*Config)) {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, fn)
	m.mu.Unlock()
}

func (m *Manager) unmarshalLocked() error {
	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Reader = cfg.Reader.Normalize()
	if cfg.Database.Path == "" {
		if dbPath, err := GetDatabaseFile(); err == nil {
			cfg.Database.Path = dbPath
		}
	}

	m.config = cfg
	return nil
}

// writeDefaultConfig materializes the defaults as config.yaml in the
// first configured path. The directory must already exist.
func (m *Manager) writeDefaultConfig() error {
	return m.viper.SafeWriteConfig()
}
