// Package api provides an HTTP API for building, normalizing and caching
// model requests.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// DefaultBackend is used when a request body names no backend.
	DefaultBackend string

	// MCP mounts the MCP server at /mcp.
	MCP bool
}
