package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/cache"
	"github.com/papercomputeco/manifest/pkg/request"
)

var (
	normalizeToolName    = "normalize_request"
	normalizeDescription = "Build a model request from a kind, a backend and field overrides, and return the parameters that backend's API expects. Null fields are omitted and fields the backend does not accept are dropped."

	cacheLookupToolName    = "cache_lookup"
	cacheLookupDescription = "Compute the result cache key of a model request and return the cached response, if any."
)

// RequestInput represents the input arguments shared by the tools.
type RequestInput struct {
	Kind     string         `json:"kind,omitempty" jsonschema:"request kind: completion, chat, score, embedding or diffusion (default: completion)"`
	Backend  string         `json:"backend,omitempty" jsonschema:"backend name, e.g. openai, cohere, huggingface"`
	Params   map[string]any `json:"params,omitempty" jsonschema:"field overrides keyed by internal field name, e.g. temperature, max_tokens, prompt"`
	External map[string]any `json:"external,omitempty" jsonschema:"field overrides keyed by the backend's own parameter names"`
}

// NormalizeOutput represents the output of the normalize tool.
type NormalizeOutput struct {
	Backend    string         `json:"backend"`
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters"`
	Order      []string       `json:"order"`
}

// CacheLookupOutput represents the output of the cache lookup tool.
type CacheLookupOutput struct {
	Key    string `json:"key"`
	Hit    bool   `json:"hit"`
	Result string `json:"result,omitempty"`
}

func (s *Server) prepare(input RequestInput) (request.Descriptor, backend.Backend, error) {
	in := backend.Input{
		Kind:     input.Kind,
		Backend:  s.backendOrDefault(input.Backend),
		Params:   input.Params,
		External: input.External,
	}
	return backend.Prepare(in)
}

// handleNormalize processes a normalize request.
func (s *Server) handleNormalize(_ context.Context, _ *mcp.CallToolRequest, input RequestInput) (*mcp.CallToolResult, NormalizeOutput, error) {
	d, b, err := s.prepare(input)
	if err != nil {
		return toolError(err), NormalizeOutput{}, nil
	}

	out, err := b.Normalize(d, true)
	if err != nil {
		return toolError(err), NormalizeOutput{}, nil
	}

	s.config.Logger.Debug("MCP normalize request", "backend", b.Name(), "kind", d.Kind())

	return nil, NormalizeOutput{
		Backend:    b.Name(),
		Kind:       d.Kind().String(),
		Parameters: out.Map(),
		Order:      out.Keys(),
	}, nil
}

// handleCacheLookup processes a cache lookup request.
func (s *Server) handleCacheLookup(ctx context.Context, _ *mcp.CallToolRequest, input RequestInput) (*mcp.CallToolResult, CacheLookupOutput, error) {
	d, b, err := s.prepare(input)
	if err != nil {
		return toolError(err), CacheLookupOutput{}, nil
	}

	key, err := cache.Key(b.Name(), d)
	if err != nil {
		return toolError(err), CacheLookupOutput{}, nil
	}

	value, err := s.config.Cache.Get(ctx, key)
	if err != nil {
		var notFound cache.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, CacheLookupOutput{Key: key}, nil
		}
		s.config.Logger.Error("failed to read cache", "key", key, "error", err)
		return toolError(err), CacheLookupOutput{}, nil
	}

	return nil, CacheLookupOutput{Key: key, Hit: true, Result: string(value)}, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
		},
	}
}
