package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hongminglow/brewerybook/internal/config"
	"github.com/hongminglow/brewerybook/internal/http/handlers"
	"github.com/hongminglow/brewerybook/internal/logging"
	"github.com/hongminglow/brewerybook/internal/middleware"
)

// Deps are the services the routes are built on.
type Deps struct {
	Accounts  handlers.Accounts
	Gate      middleware.Authenticator
	Directory handlers.Directory
	Logger    logging.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// NewRouter wires middleware and routes.
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(deps.Accounts, deps.Logger).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Gate, deps.Logger))
		handlers.NewBreweriesHandler(deps.Directory, deps.Logger).Register(r)
	})

	return r
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.DirectoryTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if cfg.DirectoryTimeout == 0 {
		httpServer.WriteTimeout = 0
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
