// Package mcp provides an MCP (Model Context Protocol) server exposing
// request normalization and the result cache as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/manifest/pkg/cache"
	"github.com/papercomputeco/manifest/pkg/utils"
)

type Config struct {
	// DefaultBackend is used when a tool call names no backend.
	DefaultBackend string

	// Cache backs the cache lookup tool.
	Cache cache.Cache

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler

	mu             sync.RWMutex
	defaultBackend string
}

// NewServer creates a new MCP server with the normalize and cache tools.
func NewServer(c Config) (*Server, error) {
	if c.Cache == nil {
		return nil, errors.New("cache is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config:         c,
		defaultBackend: c.DefaultBackend,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "manifest",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        normalizeToolName,
		Description: normalizeDescription,
	}, s.handleNormalize)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        cacheLookupToolName,
		Description: cacheLookupDescription,
	}, s.handleCacheLookup)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SetDefaultBackend changes the backend used by tool calls that name none.
func (s *Server) SetDefaultBackend(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultBackend = name
}

func (s *Server) backendOrDefault(name string) string {
	if name != "" {
		return name
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultBackend
}
