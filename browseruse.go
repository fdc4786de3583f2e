// Package browseruse exposes the browser-automation MCP service as an
// embeddable server, wiring together the browser controller, history store,
// content converter and MCP tool server.
package browseruse

import (
	"log/slog"

	"github.com/praveen92y/mcp-browser-use/internal/browser"
	"github.com/praveen92y/mcp-browser-use/internal/config"
	"github.com/praveen92y/mcp-browser-use/internal/errortypes"
	"github.com/praveen92y/mcp-browser-use/internal/history"
	"github.com/praveen92y/mcp-browser-use/internal/markdown"
	"github.com/praveen92y/mcp-browser-use/internal/server"
	"github.com/praveen92y/mcp-browser-use/internal/telemetry"
	"github.com/praveen92y/mcp-browser-use/internal/util"
)

// Config represents the configuration for the browser-use service.
type Config = config.Config

// Server represents the browser-use MCP service.
type Server struct {
	config     *config.Config
	controller browser.Controller
	store      history.Store
	converter  markdown.Converter
	metrics    *telemetry.MetricsCollector
	toolServer server.ToolServer
	logger     *slog.Logger
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.
}

// NewServer creates a new browser-use Server with the given options.
// If opts.Config is provided, it will be used directly.
// Otherwise, if opts.ConfigPath is provided, configuration will be loaded from that path.
// If neither is provided, DefaultConfig() will be used.
func NewServer(opts ServerOptions) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		logger.Info("Using provided Config object for server initialization")
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration for server initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			logger.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		logger.Warn("No Config object or ConfigPath provided, using default configuration for server initialization")
		cfg = DefaultConfig()
	}

	controller, store, converter, metrics, err := CreateComponents(cfg, logger)
	if err != nil {
		logger.Error("Failed to create components during server initialization", "error", err)
		return nil, err
	}

	logger.Info("Initializing browser tool server component")
	mcpServer := server.NewBrowserToolServer(controller, store, converter, metrics, browser.LaunchOptions{
		Kind:           cfg.Browser.Kind,
		Path:           cfg.Browser.Path,
		Headless:       cfg.Browser.Headless,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		TimeoutMs:      cfg.Browser.TimeoutMs,
	})
	if err := mcpServer.Initialize(); err != nil {
		logger.Error("Failed to initialize MCP browser tool server component", "error", err)
		return nil, errortypes.ConfigError(err, "Failed to initialize MCP browser tool server component")
	}

	logger.Info("Browser-use server successfully initialized")
	return &Server{
		config:     cfg,
		controller: controller,
		store:      store,
		converter:  converter,
		metrics:    metrics,
		toolServer: mcpServer,
		logger:     logger,
	}, nil
}

// DefaultConfig returns the default configuration for the browser-use service.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// Start starts the browser-use service on the stdio transport. Blocks until
// the client closes stdin.
func (s *Server) Start() error {
	s.logger.Info("Starting browser-use service")
	return s.toolServer.Start()
}

// Stop stops the browser-use service.
func (s *Server) Stop() error {
	s.logger.Info("Stopping browser-use service")
	if err := s.toolServer.Stop(); err != nil {
		s.logger.Error("Error stopping tool server", "error", err)
		return err
	}

	s.logger.Info("Closing history store")
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close history store", "error", err)
		return err
	}

	s.logger.Info("Browser-use service stopped")
	return nil
}

// GetController returns the browser controller instance used by the server.
func (s *Server) GetController() browser.Controller {
	return s.controller
}

// GetStore returns the history store instance used by the server.
func (s *Server) GetStore() history.Store {
	return s.store
}

// GetMetrics returns the metrics collector used by the server.
func (s *Server) GetMetrics() *telemetry.MetricsCollector {
	return s.metrics
}

// CreateComponents creates and initializes the components of the browser-use
// service without creating a server instance. This is useful for embedders
// that need direct access to the controller, store and converter.
func CreateComponents(cfg *Config, logger *slog.Logger) (browser.Controller, history.Store, markdown.Converter, *telemetry.MetricsCollector, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Initialize the browser manager
	logger.Info("Initializing browser manager for CreateComponents")
	manager := browser.NewManager(logger)
	if err := manager.Initialize(); err != nil {
		logger.Error("Failed to start Playwright runtime in CreateComponents", "error", err)
		return nil, nil, nil, nil, errortypes.BrowserError(err, "Failed to start Playwright runtime")
	}

	// Initialize SQLite history store
	logger.Info("Initializing SQLite history store for CreateComponents", "path", cfg.History.SQLitePath)
	store := history.NewSQLiteStore()
	if err := store.Initialize(cfg.History.SQLitePath); err != nil {
		logger.Error("Failed to initialize SQLite history store in CreateComponents", "path", cfg.History.SQLitePath, "error", err)
		return nil, nil, nil, nil, errortypes.DatabaseError(err, "Failed to initialize SQLite history store")
	}

	// Initialize the HTML to Markdown converter
	logger.Info("Initializing content converter for CreateComponents")
	converter := markdown.NewHTMLConverter()
	if err := converter.Initialize(); err != nil {
		logger.Error("Failed to initialize content converter in CreateComponents", "error", err)
		return nil, nil, nil, nil, errortypes.ConfigError(err, "Failed to initialize content converter")
	}

	metrics := telemetry.NewMetricsCollector()

	logger.Info("Components successfully initialized via CreateComponents")
	return manager, store, converter, metrics, nil
}

// GenerateHash creates a hash from the given text and a timestamp.
// This is a convenience wrapper around the internal util.GenerateHash function
func GenerateHash(text string, timestamp int64) string {
	return util.GenerateHash(text, timestamp)
}
