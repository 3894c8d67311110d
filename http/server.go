// Package http exposes run control over HTTP: start, pause, resume and stop
// commands, status reads and a server-sent event stream of progress updates.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fwojciec/callscribe"
)

// Runner is the run controller driven by the server. Start takes ownership
// of the source view when it returns nil and closes it when the run ends.
type Runner interface {
	Start(ctx context.Context, source callscribe.View, folderName string) error
	Pause()
	Resume()
	Stop()
	Status() callscribe.Status
	Subscribe(fn callscribe.StatusFunc) (cancel func())
}

// SourceOpener resolves the source of a run to a list view.
type SourceOpener interface {
	OpenSource(ctx context.Context, source string, attach bool) (callscribe.View, error)
}

// StartRequest is the body of POST /api/start.
type StartRequest struct {
	// Source is the search-results URL, or with Attach a substring of the
	// URL of an already open view.
	Source     string `json:"source"`
	Attach     bool   `json:"attach"`
	FolderName string `json:"folderName"`
}

// Server is the HTTP command surface.
type Server struct {
	runner  Runner
	sources SourceOpener
	logger  *slog.Logger
	baseCtx context.Context

	mux         *http.ServeMux
	hub         *Hub
	unsubscribe func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to discarding logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithBaseContext sets the context runs started by the server live in.
// Runs are not bound to the request that started them.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		s.baseCtx = ctx
	}
}

// NewServer creates a new Server. Close must be called when the Server is
// no longer needed.
func NewServer(runner Runner, sources SourceOpener, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		sources: sources,
		logger:  slog.New(slog.DiscardHandler),
		baseCtx: context.Background(),
		mux:     http.NewServeMux(),
		hub:     NewHub(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.unsubscribe = runner.Subscribe(func(status callscribe.Status) {
		s.hub.Broadcast(Event{Type: EventProgressUpdate, Data: status})
	})

	s.mux.HandleFunc("POST /api/start", s.handleStart)
	s.mux.HandleFunc("POST /api/pause", s.handlePause)
	s.mux.HandleFunc("POST /api/resume", s.handleResume)
	s.mux.HandleFunc("POST /api/stop", s.handleStop)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops broadcasting and disconnects event stream clients.
func (s *Server) Close() error {
	s.unsubscribe()
	s.hub.Close()
	return nil
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, callscribe.Errorf(callscribe.EINVALID, "Invalid JSON body."))
		return
	}

	view, err := s.sources.OpenSource(r.Context(), req.Source, req.Attach)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Attached views belong to the user and outlive the run.
	if req.Attach {
		view = keepOpen{view}
	}

	if err := s.runner.Start(s.baseCtx, view, req.FolderName); err != nil {
		_ = view.Close()
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"started": true})
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.runner.Pause()
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (s *Server) handleResume(w http.ResponseWriter, _ *http.Request) {
	s.runner.Resume()
	writeJSON(w, http.StatusOK, map[string]bool{"resumed": true})
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.runner.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"stopped": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Status())
}

// writeError maps application error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code, message := callscribe.ErrorCode(err), callscribe.ErrorMessage(err)

	status := http.StatusInternalServerError
	switch code {
	case callscribe.EINVALID:
		status = http.StatusBadRequest
	case callscribe.ENOTFOUND:
		status = http.StatusNotFound
	case callscribe.ECONFLICT:
		status = http.StatusConflict
	case callscribe.ETIMEOUT:
		status = http.StatusGatewayTimeout
	}
	if code == callscribe.EINTERNAL {
		s.logger.Error("request failed", "err", err)
	}

	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// keepOpen is a view whose Close leaves the underlying view open.
type keepOpen struct {
	callscribe.View
}

func (keepOpen) Close() error { return nil }
