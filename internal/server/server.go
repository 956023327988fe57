// Package server exposes one route-editing session and its planning jobs over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/store"
	"github.com/katalvlaran/lvroute/tsp"
)

// Config holds server dependencies.
type Config struct {
	Addr string // e.g. "127.0.0.1:8080" or "127.0.0.1:0" for a random port

	// Repo persists named graphs. Shutdown closes it.
	Repo store.Repository

	// Graph, when set, is loaded from Repo at startup if it exists.
	Graph string

	// Solver backs approximate plans; nil selects the tsp default.
	Solver tsp.Solver

	Logger *slog.Logger
}

// Server wraps the HTTP server, the editing session and running plans.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string

	session *session
	jobs    *jobRegistry
	repo    store.Repository
	solver  tsp.Solver
	base    *slog.Logger // without the server component, for planners
	logger  *slog.Logger
}

// New creates a server; it does not listen until Start.
func New(cfg Config) (*Server, error) {
	if cfg.Repo == nil {
		return nil, errors.New("server: nil repository")
	}
	base := cfg.Logger
	if base == nil {
		base = slog.Default()
	}

	solver := cfg.Solver
	if solver == nil {
		solver = tsp.NewGenetic()
	}

	s := &Server{
		addr:    cfg.Addr,
		session: newSession(core.NewGraph()),
		jobs:    newJobRegistry(),
		repo:    cfg.Repo,
		solver:  solver,
		base:    base,
		logger:  base.With(slog.String("component", "server")),
	}

	if cfg.Graph != "" {
		if err := s.restore(context.Background(), cfg.Graph); err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load graph %q: %w", cfg.Graph, err)
		}
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/graph", s.getGraph).Methods(http.MethodGet)
	api.HandleFunc("/graph", s.putGraph).Methods(http.MethodPut)

	api.HandleFunc("/nodes", s.addNode).Methods(http.MethodPost)
	api.HandleFunc("/nodes/{id:[0-9]+}", s.moveNode).Methods(http.MethodPut)
	api.HandleFunc("/nodes/{id:[0-9]+}", s.removeNode).Methods(http.MethodDelete)

	api.HandleFunc("/edges", s.connect).Methods(http.MethodPost)
	api.HandleFunc("/edges", s.disconnect).Methods(http.MethodDelete)

	api.HandleFunc("/targets", s.listTargets).Methods(http.MethodGet)
	api.HandleFunc("/targets", s.attachTarget).Methods(http.MethodPost)
	api.HandleFunc("/targets/{id:[0-9]+}", s.detachTarget).Methods(http.MethodDelete)
	api.HandleFunc("/targets/{id:[0-9]+}/position", s.moveTarget).Methods(http.MethodPut)

	api.HandleFunc("/endpoints", s.setEndpoints).Methods(http.MethodPut)

	api.HandleFunc("/plans", s.startPlan).Methods(http.MethodPost)
	api.HandleFunc("/plans/{id}", s.getPlan).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}", s.cancelPlan).Methods(http.MethodDelete)

	api.HandleFunc("/graphs", s.listGraphs).Methods(http.MethodGet)
	api.HandleFunc("/graphs/{name}", s.saveGraph).Methods(http.MethodPost)
	api.HandleFunc("/graphs/{name}", s.loadGraph).Methods(http.MethodGet)
	api.HandleFunc("/graphs/{name}", s.deleteGraph).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return s.loggingMiddleware(corsMiddleware(r))
}

// Start listens and serves in the background. It returns the bound address.
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	s.logger.Info("starting server", slog.String("addr", actualAddr))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", slog.Any("error", err))
		}
	}()

	return actualAddr, nil
}

// Shutdown stops accepting requests, cancels running plans and closes the
// repository.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.jobs.shutdown(ctx); err != nil {
		return err
	}

	return s.repo.Close()
}
