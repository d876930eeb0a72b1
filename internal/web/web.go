// Package web serves the published calendar directory plus a small JSON API
// for run status and manual refresh.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"bballcal/internal/config"
	appLog "bballcal/internal/log"
	"bballcal/internal/publish"
)

// RefreshFunc re-runs the scrape/generate pipeline and returns the new run
// status. The server serializes calls; a refresh triggered while another is
// in flight waits its turn.
type RefreshFunc func(ctx context.Context) (publish.Status, error)

// Server provides HTTP access to the published calendars and the run status.
type Server struct {
	cfg     *config.Config
	refresh RefreshFunc
	mux     *http.ServeMux

	// Guards status and serializes refresh runs.
	mu        sync.Mutex
	status    publish.Status
	hasStatus bool
}

// NewServer constructs a Server over the publish output directory. refresh
// may be nil, in which case POST /api/refresh responds 503.
func NewServer(cfg *config.Config, refresh RefreshFunc) *Server {
	s := &Server{
		cfg:     cfg,
		refresh: refresh,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// SetStatus records the most recent run summary for /api/status. The cron
// loop calls this after every scheduled run.
func (s *Server) SetStatus(status publish.Status) {
	s.mu.Lock()
	s.status = status
	s.hasStatus = true
	s.mu.Unlock()
}

// ListenAndServe starts the server on cfg.Listen and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)

	// Everything else is the published directory: index.html, the .ics
	// files, status.json.
	s.mux.Handle("/", s.publishedFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	status, ok := s.status, s.hasStatus
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "no run has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleRefresh triggers a pipeline re-run.
//
// POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if s.refresh == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh not available")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appLog.Info("manual refresh requested", "remote", r.RemoteAddr)
	status, err := s.refresh(r.Context())
	if err != nil {
		appLog.Error("manual refresh failed", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}

	s.status = status
	s.hasStatus = true
	writeJSON(w, http.StatusOK, status)
}

// publishedFileServer serves the publish output directory from disk. API
// paths never fall through to it.
func (s *Server) publishedFileServer() http.Handler {
	fileServer := http.FileServer(http.Dir(s.cfg.OutputDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(path, ".ics") {
			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		}
		fileServer.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
