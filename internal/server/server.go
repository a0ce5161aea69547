package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/missionview/internal/db"
	"github.com/ziadkadry99/missionview/internal/report"
	"github.com/ziadkadry99/missionview/internal/viewer"
)

// DefaultRequestTimeout bounds ordinary requests. Generation calls an LLM and
// can take a while, so it is generous.
const DefaultRequestTimeout = 3 * time.Minute

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool // allow all CORS origins (dev mode)
	RequestTimeout time.Duration
}

// Server hosts the viewer and the report archive API.
type Server struct {
	cfg        Config
	db         *db.DB
	viewer     *viewer.Viewer
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. database and v may be nil in tests; the matching
// routes are then not mounted.
func New(cfg Config, database *db.DB, v *viewer.Viewer) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	s := &Server{
		cfg:    cfg,
		db:     database,
		viewer: v,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(timeoutExceptUpgrades(s.cfg.RequestTimeout))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.db != nil {
		report.RegisterRoutes(r, report.NewStore(s.db))
	}
	if s.viewer != nil {
		s.viewer.RegisterRoutes(r)
	}

	return r
}

// timeoutExceptUpgrades applies middleware.Timeout to every request except
// websocket upgrades, which stay open for the life of the page.
func timeoutExceptUpgrades(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		timed := middleware.Timeout(d)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("missionview server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
