package api

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/papercomputeco/manifest/api/mcp"
	"github.com/papercomputeco/manifest/pkg/cache"
)

// Server is the API server for normalizing requests and reading and writing
// the result cache.
type Server struct {
	config  Config
	cache   cache.Cache
	logger  *slog.Logger
	app     *fiber.App
	mcp     *mcp.Server
	metrics *metrics

	mu             sync.RWMutex
	defaultBackend string
}

// NewServer creates a new API server.
// The cache is injected so the CLI and the server can share one store.
func NewServer(config Config, store cache.Cache, logger *slog.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("cache is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		cache:  store,
		logger: logger,
		app:    app,

		metrics:        newMetrics(),
		defaultBackend: config.DefaultBackend,
	}

	app.Use(s.metrics.observe)

	app.Get("/ping", s.handlePing)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	app.Get("/v1/backends", s.handleListBackends)
	app.Get("/v1/backends/:name", s.handleGetBackend)
	app.Post("/v1/normalize", s.handleNormalize)
	app.Post("/v1/cache-key", s.handleCacheKey)
	app.Get("/v1/cache/:key", s.handleGetCache)
	app.Put("/v1/cache/:key", s.handlePutCache)

	if config.MCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			DefaultBackend: config.DefaultBackend,
			Cache:          store,
			Logger:         logger,
		})
		if err != nil {
			return nil, err
		}
		s.mcp = mcpServer
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// SetDefaultBackend changes the backend used by requests that name none.
func (s *Server) SetDefaultBackend(name string) {
	s.mu.Lock()
	s.defaultBackend = name
	s.mu.Unlock()

	if s.mcp != nil {
		s.mcp.SetDefaultBackend(name)
	}
}

// DefaultBackend returns the backend used by requests that name none.
func (s *Server) DefaultBackend() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultBackend
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"mcp", s.config.MCP,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
