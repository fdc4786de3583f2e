package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/praveen92y/mcp-browser-use/internal/errortypes"
	"github.com/praveen92y/mcp-browser-use/internal/history"
	"github.com/praveen92y/mcp-browser-use/internal/telemetry"
)

// defaultHistoryLimit bounds /history responses when no limit is given.
const defaultHistoryLimit = 20

// DebugServer is an optional HTTP listener exposing health, metrics and
// recent tool activity. The MCP transport itself stays on stdio; this
// listener exists for local inspection and is off unless configured.
type DebugServer struct {
	addr    string
	metrics *telemetry.MetricsCollector
	store   history.Store
	httpSrv *http.Server
}

// NewDebugServer creates a DebugServer bound to addr.
func NewDebugServer(addr string, metrics *telemetry.MetricsCollector, store history.Store) *DebugServer {
	return &DebugServer{
		addr:    addr,
		metrics: metrics,
		store:   store,
	}
}

// Start begins serving in a background goroutine.
func (d *DebugServer) Start() error {
	if d.addr == "" {
		return errortypes.ConfigError(errors.New("debug address is empty"), "cannot start debug server")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", d.handleHealthz)
	mux.HandleFunc("/metrics", d.handleMetrics)
	mux.HandleFunc("/history", d.handleHistory)

	d.httpSrv = &http.Server{
		Addr:         d.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Debug HTTP server listening", "addr", d.addr)
		if err := d.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Debug HTTP server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the listener down.
func (d *DebugServer) Stop(ctx context.Context) error {
	if d.httpSrv == nil {
		return nil
	}
	return d.httpSrv.Shutdown(ctx)
}

func (d *DebugServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (d *DebugServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.metrics.Snapshot())
}

func (d *DebugServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			HandleError(w, errortypes.ValidationError(
				errors.New("limit must be a positive integer"), "invalid history request"))
			return
		}
		limit = parsed
	}

	entries, err := d.store.Recent(limit)
	if err != nil {
		HandleError(w, errortypes.DatabaseError(err, "failed to read history"))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
