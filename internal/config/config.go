package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localrivet/configurator"
)

// Global configuration instance
var (
	// Global is the global configuration instance
	Global *Config
	// initOnce ensures initialization happens only once
	initOnce sync.Once
)

// InitGlobal initializes the global configuration
func InitGlobal(configPath string) (*Config, error) {
	var err error
	initOnce.Do(func() {
		Global, err = LoadConfigWithPath(configPath)
	})
	return Global, err
}

// Config represents the mcp-browser-use configuration
type Config struct {
	// Browser contains browser-launch configuration.
	Browser struct {
		// Kind selects the browser to drive ("auto", "chrome", "brave", "chromium").
		Kind string `json:"kind" env:"BROWSER_KIND"`

		// Path overrides the detected browser executable path.
		Path string `json:"path" env:"BROWSER_PATH"`

		// Headless controls whether the browser runs without a window.
		Headless bool `json:"headless" env:"BROWSER_HEADLESS"`

		// ViewportWidth is the initial viewport width in pixels.
		ViewportWidth int `json:"viewport_width" env:"BROWSER_VIEWPORT_WIDTH" validate:"min:1"`

		// ViewportHeight is the initial viewport height in pixels.
		ViewportHeight int `json:"viewport_height" env:"BROWSER_VIEWPORT_HEIGHT" validate:"min:1"`

		// TimeoutMs is the default timeout for page operations in milliseconds.
		TimeoutMs float64 `json:"timeout_ms" env:"BROWSER_TIMEOUT_MS"`
	} `json:"browser"`

	// History contains action-history storage configuration.
	History struct {
		// SQLitePath is the path to the SQLite history database file.
		SQLitePath string `json:"sqlite_path" env:"HISTORY_SQLITE_PATH" validate:"required"`
	} `json:"history"`

	// Debug contains the optional HTTP debug endpoint configuration.
	Debug struct {
		// Enabled turns the debug HTTP listener on.
		Enabled bool `json:"enabled" env:"DEBUG_ENABLED"`

		// Addr is the listen address for the debug endpoint.
		Addr string `json:"addr" env:"DEBUG_ADDR"`
	} `json:"debug"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".mcpbrowseruseconfig"
	DefaultSQLitePath     = ".mcpbrowseruse.db"
	DefaultBrowserKind    = "auto"
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultTimeoutMs      = 30000.0
	DefaultDebugAddr      = "127.0.0.1:8384"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Browser.Kind = DefaultBrowserKind
	config.Browser.ViewportWidth = DefaultViewportWidth
	config.Browser.ViewportHeight = DefaultViewportHeight
	config.Browser.TimeoutMs = DefaultTimeoutMs
	config.History.SQLitePath = DefaultSQLitePath
	config.Debug.Addr = DefaultDebugAddr
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path
func LoadConfigWithPath(configPath string) (*Config, error) {
	// Configuration loading happens before the real logger exists; stderr
	// keeps the MCP stdio stream clean.
	stdLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create default configuration
	cfg := NewConfig()

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	// Check if the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// File doesn't exist, return default config
		stdLogger.Info("Config file not found, using default configuration", "path", configPath)
		cfg.configPath = configPath
		cfg.lastModifiedAt = time.Now()
		return cfg, nil
	}

	stdLogger.Info("Loading configuration", "path", configPath)

	// Create configurator instance
	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider()).
		WithProvider(configurator.NewFileProvider(configPath)).
		WithProvider(configurator.NewEnvProvider("MCPBROWSERUSE")).
		WithValidator(configurator.NewDefaultValidator())

	// Load configuration
	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Store the config path for future operations
	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Save using configurator's SaveToFile function
	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Update internal state
	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}
