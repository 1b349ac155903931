package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/socialite/internal/activity"
	"github.com/ziadkadry99/socialite/internal/db"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/render"
)

// Config holds server configuration.
type Config struct {
	Port        int
	PagesDir    string // directory served under /pages/
	AllowAll    bool   // allow all CORS origins (dev mode)
	AssumeReady bool   // default for the ready query parameter
}

// Server renders pages on request and exposes the registry and the
// activity log over HTTP.
type Server struct {
	cfg        Config
	db         *db.DB
	activity   *activity.Store
	hub        *activity.Hub
	reg        *registry.Registry
	renderer   *render.Renderer
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. database may be nil, in which case renders are
// not recorded and the activity endpoints are not mounted.
func New(cfg Config, database *db.DB, reg *registry.Registry, renderer *render.Renderer) *Server {
	s := &Server{
		cfg:      cfg,
		db:       database,
		reg:      reg,
		renderer: renderer,
		logger:   slog.Default(),
	}
	if database != nil {
		s.activity = activity.NewStore(database)
		s.hub = activity.NewHub()
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{RenderIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/networks", func(r chi.Router) {
		r.Get("/", s.handleNetworks)
		r.Get("/{name}", s.handleNetwork)
	})
	r.Post("/api/render", s.handleRender)
	r.Get("/pages/*", s.handlePage)

	if s.activity != nil {
		activity.RegisterRoutes(r, s.activity, s.hub)
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Hub returns the live activity feed, or nil without a database.
func (s *Server) Hub() *activity.Hub { return s.hub }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// SetLogger replaces the logger used for server events.
func (s *Server) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("socialite server listening", "addr", addr, "pages", s.cfg.PagesDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
