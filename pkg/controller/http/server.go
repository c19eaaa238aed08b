package http

import (
	"context"
	"net/http"
	"time"

	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
	"github.com/balatro-mod-manager/bmm/pkg/utils/async"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// config holds internal HTTP server configuration
type config struct {
	addr     string
	apiToken string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithAPIToken requires "Authorization: Bearer <token>" on the /mods routes
func WithAPIToken(token string) Option {
	return func(c *config) {
		c.apiToken = token
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	jobs *async.Group
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	modUC interfaces.ModUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr: "localhost:8080",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	jobs := &async.Group{}
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	modsHandler := NewModsHandler(modUC, jobs)
	router.Route("/mods", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.apiToken))
		r.Get("/", modsHandler.List)
		r.Post("/", modsHandler.Install)
		r.Delete("/{name}", modsHandler.Uninstall)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		jobs: jobs,
	}

	return server, nil
}

// WaitJobs blocks until background installs have finished or ctx is done
func (s *Server) WaitJobs(ctx context.Context) error {
	return s.jobs.Wait(ctx)
}
