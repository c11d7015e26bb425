// Package server assembles the HTTP handlers and starts the server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matthewbaird/dashgen/internal/event"
	"github.com/matthewbaird/dashgen/internal/handler"
	"github.com/matthewbaird/dashgen/internal/manifest"
	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/session"
	"github.com/matthewbaird/dashgen/internal/wire"
)

// Preview sessions expire after 24 hours, or 30 minutes without traffic.
const (
	sessionMaxAge      = 24 * time.Hour
	sessionIdleTimeout = 30 * time.Minute
	sessionSweep       = time.Minute
)

// Config holds server configuration.
type Config struct {
	Port      int
	Store     manifest.Store
	Publisher event.Publisher // optional
	Planner   *planner.Planner
}

// Server is the dashgen HTTP API.
type Server struct {
	cfg      Config
	sessions *session.Manager
	router   chi.Router
}

// New wires the routes for cfg. A nil Store or Planner gets an in-memory
// store or a default planner.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = manifest.NewMemoryStore()
	}
	if cfg.Planner == nil {
		cfg.Planner = planner.New()
	}
	s := &Server{
		cfg:      cfg,
		sessions: session.NewManager(sessionMaxAge, sessionIdleTimeout),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	recorder := event.NewManifestRecorder(s.cfg.Store)
	if s.cfg.Publisher != nil {
		recorder.SetPublisher(s.cfg.Publisher)
	}
	ph := handler.NewPlanHandler(s.cfg.Planner, s.cfg.Store, recorder)
	ws := wire.NewHandler(s.sessions, s.cfg.Planner)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/field-types", ph.HandleFieldTypes)
		r.Post("/plans", ph.HandleCreatePlan)
		r.Get("/plans/ws", ws.ServeHTTP)

		r.Route("/projects/{name}", func(r chi.Router) {
			r.Post("/entities", ph.HandlePlanEntity)
			r.Get("/runs", ph.HandleListRuns)
			r.Get("/paths", ph.HandleListPaths)
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.sessions.Run(ctx, sessionSweep)

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server: shutdown: %v", err)
		}
	}()

	log.Printf("server: listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
