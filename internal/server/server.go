// Package server exposes read-only HTTP access to catalog snapshots:
// every request to /schema opens a fresh read-only snapshot, streams the
// rendered output, and closes it. The server never writes to the
// database.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/schemawalk/schemawalk/internal/catalog"
	"github.com/schemawalk/schemawalk/internal/logger"
	"github.com/schemawalk/schemawalk/internal/runner"
)

// SnapshotSource is one consistent, closable catalog snapshot.
type SnapshotSource interface {
	catalog.Source
	Close(ctx context.Context) error
}

// Opener opens a new snapshot per request.
type Opener func(ctx context.Context) (SnapshotSource, error)

// Server streams schema snapshots over HTTP.
type Server struct {
	open   Opener
	policy *catalog.Policy
	log    *logger.Logger
}

// New returns a Server that reads through open, filtered by policy.
// The policy's schema filter is compiled here, before any request runs.
func New(open Opener, policy *catalog.Policy, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := policy.Compile(); err != nil {
		return nil, err
	}
	return &Server{open: open, policy: policy, log: log}, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/schema", s.handleSchema)
	return r
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Infof("listening on %s", addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.open(r.Context())
	if err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	_ = snap.Close(r.Context())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleSchema streams one freshly rendered snapshot. Query parameters:
// format (text|json, default text), pretty (JSON only). A failure after
// streaming has begun can only be logged; the truncated body is the
// client's signal.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	format, err := runner.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pretty := r.URL.Query().Get("pretty") == "1" || r.URL.Query().Get("pretty") == "true"

	snap, err := s.open(r.Context())
	if err != nil {
		s.log.ErrorWith("snapshot open failed", err)
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	defer func() { _ = snap.Close(r.Context()) }()

	if format == runner.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}

	run := &runner.Runner{
		Source: snap,
		Policy: s.policy,
		Format: format,
		Pretty: pretty,
		Out:    w,
		Log:    s.log,
	}
	if err := run.Run(r.Context()); err != nil {
		s.log.ErrorWith("schema walk failed", err)
	}
}
