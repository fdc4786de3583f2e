package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/praveen92y/mcp-browser-use/internal/browser"
	"github.com/praveen92y/mcp-browser-use/internal/config"
	"github.com/praveen92y/mcp-browser-use/internal/errortypes"
	"github.com/praveen92y/mcp-browser-use/internal/history"
	"github.com/praveen92y/mcp-browser-use/internal/logger"
	"github.com/praveen92y/mcp-browser-use/internal/markdown"
	"github.com/praveen92y/mcp-browser-use/internal/server"
	"github.com/praveen92y/mcp-browser-use/internal/telemetry"
)

func main() {
	// Initialize logging first thing. Logs go to stderr; stdout carries the
	// MCP protocol stream.
	appLogger := setupLogging()

	appLogger.Info("mcp-browser-use MCP Server - Starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		errortypes.LogError(appLogger, err)
		logger.Fatal(appLogger, "Failed to load configuration")
	}

	// Reconfigure logging from config
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" {
		appLogger = logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
		appLogger.Info("Logging configured", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	}

	// Make sure the Playwright driver and browsers are installed before
	// serving any tool calls.
	appLogger.Info("Checking Playwright installation...")
	if err := browser.InstallDriver(); err != nil {
		errortypes.LogError(appLogger, errortypes.BrowserError(err, "Playwright installation failed"))
		logger.Fatal(appLogger, "Failed to install Playwright")
	}

	// Initialize the browser manager
	manager := browser.NewManager(appLogger)
	if err := manager.Initialize(); err != nil {
		errortypes.LogError(appLogger, errortypes.BrowserError(err, "Failed to start Playwright runtime"))
		logger.Fatal(appLogger, "Failed to start Playwright runtime")
	}
	appLogger.Info("Browser manager initialized")

	// Initialize the history store
	store := history.NewSQLiteStore()
	if err := store.Initialize(cfg.History.SQLitePath); err != nil {
		errortypes.LogError(appLogger, errortypes.DatabaseError(err, "Failed to initialize SQLite history store"))
		logger.Fatal(appLogger, "Failed to initialize SQLite history store")
	}
	defer store.Close()
	appLogger.Info("SQLite history store initialized", "path", cfg.History.SQLitePath)

	// Initialize the content converter
	converter := markdown.NewHTMLConverter()
	if err := converter.Initialize(); err != nil {
		errortypes.LogError(appLogger, errortypes.ConfigError(err, "Failed to initialize content converter"))
		logger.Fatal(appLogger, "Failed to initialize content converter")
	}
	appLogger.Info("Content converter initialized")

	metrics := telemetry.NewMetricsCollector()

	// Initialize the MCP server
	srv := server.NewBrowserToolServer(manager, store, converter, metrics, browser.LaunchOptions{
		Kind:           cfg.Browser.Kind,
		Path:           cfg.Browser.Path,
		Headless:       cfg.Browser.Headless,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		TimeoutMs:      cfg.Browser.TimeoutMs,
	})
	if err := srv.Initialize(); err != nil {
		errortypes.LogError(appLogger, errortypes.ConfigError(err, "Failed to initialize MCP server"))
		logger.Fatal(appLogger, "Failed to initialize MCP server")
	}
	appLogger.Info("MCP server initialized")

	// Optional debug HTTP endpoint
	var debug *server.DebugServer
	if cfg.Debug.Enabled {
		debug = server.NewDebugServer(cfg.Debug.Addr, metrics, store)
		if err := debug.Start(); err != nil {
			errortypes.LogError(appLogger, err)
			appLogger.Warn("Debug HTTP server could not be started", "addr", cfg.Debug.Addr)
		}
	}

	// Handle graceful shutdown
	setupSignalHandler(manager, store, debug, appLogger)

	// Start the MCP server (this will block until the client disconnects)
	appLogger.Info("Starting MCP server...")
	if err := srv.Start(); err != nil {
		errortypes.LogError(appLogger, errortypes.InternalError(err, "MCP server failed"))
		logger.Fatal(appLogger, "Failed to start MCP server")
	}
}

// setupLogging configures and returns the application logger
func setupLogging() *slog.Logger {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = config.DefaultLogLevel
	}
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = config.DefaultLogFormat
	}
	return logger.Setup(level, format)
}

// setupSignalHandler sets up a signal handler for graceful shutdown.
func setupSignalHandler(manager *browser.Manager, store history.Store, debug *server.DebugServer, log *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Received shutdown signal, terminating gracefully...")

		if debug != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := debug.Stop(ctx); err != nil {
				log.Warn("Error stopping debug server during shutdown", "error", err)
			}
			cancel()
		}

		if err := manager.Shutdown(); err != nil {
			errortypes.LogError(log, errortypes.BrowserError(err, "Error shutting down browser during shutdown"))
		} else {
			log.Info("Browser shut down successfully")
		}

		if err := store.Close(); err != nil {
			errortypes.LogError(log, errortypes.DatabaseError(err, "Error closing history store during shutdown"))
		} else {
			log.Info("History store closed successfully")
		}

		log.Info("Shutdown complete")
		os.Exit(0)
	}()
}
