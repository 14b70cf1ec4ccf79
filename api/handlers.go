package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/cache"
	"github.com/papercomputeco/manifest/pkg/request"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BackendResponse describes one backend.
type BackendResponse struct {
	Name  string            `json:"name"`
	Kinds []request.Kind    `json:"kinds"`
	Keys  map[string]string `json:"keys"`
}

// NormalizeRequest is the body of POST /v1/normalize and POST /v1/cache-key.
type NormalizeRequest struct {
	backend.Input

	// Raw skips the backend allow-list and returns every set field.
	Raw bool `json:"raw,omitempty"`

	// DropPrompt leaves the prompt out of the result.
	DropPrompt bool `json:"drop_prompt,omitempty"`
}

// CacheKeyResponse is the body returned by POST /v1/cache-key.
type CacheKeyResponse struct {
	Key    string        `json:"key"`
	Params *request.Dict `json:"params"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListBackends lists every supported backend.
func (s *Server) handleListBackends(c *fiber.Ctx) error {
	names := backend.Supported()
	out := make([]BackendResponse, 0, len(names))
	for _, name := range names {
		b, err := backend.New(name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
		}
		out = append(out, describe(b))
	}
	return c.JSON(out)
}

// handleGetBackend describes a single backend.
func (s *Server) handleGetBackend(c *fiber.Ctx) error {
	b, err := backend.New(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(describe(b))
}

// handleNormalize builds a descriptor from the body and returns its
// normalized parameters in declaration order.
func (s *Server) handleNormalize(c *fiber.Ctx) error {
	in, err := s.parse(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	d, b, err := backend.Prepare(in.Input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	if in.Raw {
		out := request.Normalize(d, nil, true)
		if in.DropPrompt {
			out.Delete(request.FieldPrompt)
		}
		return c.JSON(out)
	}

	out, err := b.Normalize(d, !in.DropPrompt)
	if err != nil {
		if errors.Is(err, backend.ErrUnsupportedKind) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	s.metrics.normalized.WithLabelValues(b.Name(), d.Kind().String()).Inc()
	s.logger.Debug("normalized request", "backend", b.Name(), "kind", d.Kind())
	return c.JSON(out)
}

// handleCacheKey returns the cache key of the request in the body.
func (s *Server) handleCacheKey(c *fiber.Ctx) error {
	in, err := s.parse(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	d, b, err := backend.Prepare(in.Input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	key, err := cache.Key(b.Name(), d)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(CacheKeyResponse{Key: key, Params: cache.KeyParams(b.Name(), d)})
}

// handleGetCache returns the raw cached value for a key.
func (s *Server) handleGetCache(c *fiber.Ctx) error {
	key := c.Params("key")

	value, err := s.cache.Get(c.Context(), key)
	if err != nil {
		var notFound cache.ErrNotFound
		if errors.As(err, &notFound) {
			s.metrics.lookups.WithLabelValues("miss").Inc()
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "cache entry not found"})
		}
		s.logger.Error("failed to read cache", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to read cache"})
	}

	s.metrics.lookups.WithLabelValues("hit").Inc()
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(value)
}

// handlePutCache stores the request body under a key.
func (s *Server) handlePutCache(c *fiber.Ctx) error {
	key := c.Params("key")

	body := append([]byte(nil), c.Body()...)
	if err := s.cache.Set(c.Context(), key, body); err != nil {
		s.logger.Error("failed to write cache", "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to write cache"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) parse(c *fiber.Ctx) (*NormalizeRequest, error) {
	in := &NormalizeRequest{}
	if err := c.BodyParser(in); err != nil {
		return nil, errors.New("invalid request body")
	}
	if in.Backend == "" {
		in.Backend = s.DefaultBackend()
	}
	return in, nil
}

func describe(b backend.Backend) BackendResponse {
	keys := b.Keys()
	out := BackendResponse{
		Name:  b.Name(),
		Kinds: b.Kinds(),
		Keys:  make(map[string]string, len(keys)),
	}
	for name := range keys {
		out.Keys[name] = keys.External(name)
	}
	return out
}
