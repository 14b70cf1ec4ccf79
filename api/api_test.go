package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/manifest/pkg/cache/inmemory"
	"github.com/papercomputeco/manifest/pkg/logger"
)

func doJSON(server *Server, method, path string, body any) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	Expect(err).NotTo(HaveOccurred())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.app.Test(req)
	Expect(err).NotTo(HaveOccurred())

	respBody, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return resp, respBody
}

// orderedKeys returns the top level keys of a JSON object in document order.
func orderedKeys(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	Expect(err).NotTo(HaveOccurred())
	Expect(tok).To(Equal(json.Delim('{')))

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		Expect(err).NotTo(HaveOccurred())
		keys = append(keys, tok.(string))

		var skip json.RawMessage
		Expect(dec.Decode(&skip)).To(Succeed())
	}
	return keys
}

var _ = Describe("NewServer", func() {
	It("requires a cache", func() {
		_, err := NewServer(Config{ListenAddr: ":0"}, nil, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("cache is required")))
	})

	It("requires a logger", func() {
		_, err := NewServer(Config{ListenAddr: ":0"}, inmemory.NewCache(), nil)
		Expect(err).To(MatchError(ContainSubstring("logger is required")))
	})

	It("mounts the MCP endpoint when enabled", func() {
		server, err := NewServer(Config{ListenAddr: ":0", MCP: true}, inmemory.NewCache(), logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		req, err := http.NewRequest(http.MethodGet, "/mcp", nil)
		Expect(err).NotTo(HaveOccurred())
		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).NotTo(Equal(fiber.StatusNotFound))
	})
})

var _ = Describe("API Handlers", func() {
	var (
		server *Server
		store  *inmemory.Cache
	)

	BeforeEach(func() {
		store = inmemory.NewCache()
		var err error
		server, err = NewServer(Config{ListenAddr: ":0", DefaultBackend: "openai"}, store, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp, body := doJSON(server, http.MethodGet, "/ping", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(Equal(`"pong"`))
		})
	})

	Describe("GET /v1/backends", func() {
		It("lists every backend", func() {
			resp, body := doJSON(server, http.MethodGet, "/v1/backends", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out []BackendResponse
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).NotTo(BeEmpty())
			Expect(out[0].Name).To(Equal("openai"))
		})

		It("describes a single backend", func() {
			resp, body := doJSON(server, http.MethodGet, "/v1/backends/cohere", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out BackendResponse
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out.Keys).To(HaveKeyWithValue("n", "num_generations"))
			Expect(out.Keys).To(HaveKeyWithValue("client_timeout", "client_timeout"))
		})

		It("returns 404 for an unknown backend", func() {
			resp, _ := doJSON(server, http.MethodGet, "/v1/backends/nope", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})

	Describe("POST /v1/normalize", func() {
		It("renames fields for the backend and keeps declaration order", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"backend": "cohere",
				"params":  map[string]any{"prompt": "hello", "n": 3},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("prompt", "hello"))
			Expect(out).To(HaveKeyWithValue("num_generations", BeNumerically("==", 3)))
			Expect(out).NotTo(HaveKey("run_id"))
			Expect(out).NotTo(HaveKey("do_sample"))

			keys := orderedKeys(body)
			Expect(keys[0]).To(Equal("prompt"))
			Expect(keys[1]).To(Equal("model"))
		})

		It("uses the default backend when none is given", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"params": map[string]any{"top_k": 4},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("best_of", BeNumerically("==", 4)))
		})

		It("follows a changed default backend", func() {
			server.SetDefaultBackend("cohere")
			Expect(server.DefaultBackend()).To(Equal("cohere"))

			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"params": map[string]any{"n": 2},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("num_generations", BeNumerically("==", 2)))
		})

		It("accepts overrides in the backend's own names", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"backend":  "cohere",
				"external": map[string]any{"num_generations": 2},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("num_generations", BeNumerically("==", 2)))
		})

		It("drops the prompt when asked", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"backend":     "openai",
				"params":      map[string]any{"prompt": "hello"},
				"drop_prompt": true,
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).NotTo(HaveKey("prompt"))
		})

		It("returns every set field in raw mode", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"backend": "openai",
				"raw":     true,
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).To(HaveKey("engine"))
			Expect(out).To(HaveKey("do_sample"))
			Expect(out).NotTo(HaveKey("logprobs"))
		})

		It("drops the prompt in raw mode when asked", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"raw":         true,
				"drop_prompt": true,
				"params":      map[string]any{"prompt": "hello"},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out).NotTo(HaveKey("prompt"))
		})

		It("returns 422 when the backend does not serve the kind", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"backend": "openai",
				"kind":    "diffusion",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))
			Expect(string(body)).To(ContainSubstring("openai does not serve diffusion requests"))
		})

		It("returns 400 for an invalid field value", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"backend": "openai",
				"params":  map[string]any{"n": "many"},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(string(body)).To(ContainSubstring("n"))
		})

		It("returns 400 for an unknown kind", func() {
			resp, _ := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{
				"kind": "poetry",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 400 for a malformed body", func() {
			req, err := http.NewRequest(http.MethodPost, "/v1/normalize", strings.NewReader("{"))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("POST /v1/cache-key", func() {
		It("returns the same key regardless of non-cache fields", func() {
			_, first := doJSON(server, http.MethodPost, "/v1/cache-key", map[string]any{
				"params": map[string]any{"prompt": "hi", "client_timeout": 5},
			})
			_, second := doJSON(server, http.MethodPost, "/v1/cache-key", map[string]any{
				"params": map[string]any{"prompt": "hi", "batch_size": 64},
			})

			var a, b CacheKeyResponse
			Expect(json.Unmarshal(first, &a)).To(Succeed())
			Expect(json.Unmarshal(second, &b)).To(Succeed())
			Expect(a.Key).NotTo(BeEmpty())
			Expect(a.Key).To(Equal(b.Key))
		})

		It("changes the key with the prompt", func() {
			_, first := doJSON(server, http.MethodPost, "/v1/cache-key", map[string]any{
				"params": map[string]any{"prompt": "hi"},
			})
			_, second := doJSON(server, http.MethodPost, "/v1/cache-key", map[string]any{
				"params": map[string]any{"prompt": "bye"},
			})

			var a, b CacheKeyResponse
			Expect(json.Unmarshal(first, &a)).To(Succeed())
			Expect(json.Unmarshal(second, &b)).To(Succeed())
			Expect(a.Key).NotTo(Equal(b.Key))
		})
	})

	Describe("GET /metrics", func() {
		It("counts normalized requests and cache reads", func() {
			resp, _ := doJSON(server, http.MethodPost, "/v1/normalize", map[string]any{"backend": "cohere"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			resp, _ = doJSON(server, http.MethodGet, "/v1/cache/missing", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

			resp, body := doJSON(server, http.MethodGet, "/metrics", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(ContainSubstring(`manifest_normalized_requests_total{backend="cohere",kind="completion"} 1`))
			Expect(string(body)).To(ContainSubstring(`manifest_cache_lookups_total{result="miss"} 1`))
			Expect(string(body)).To(ContainSubstring("manifest_http_request_duration_seconds"))
		})
	})

	Describe("/v1/cache/:key", func() {
		It("returns 404 on a miss", func() {
			resp, body := doJSON(server, http.MethodGet, "/v1/cache/abc", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
			Expect(string(body)).To(ContainSubstring("cache entry not found"))
		})

		It("stores and returns a value", func() {
			req, err := http.NewRequest(http.MethodPut, "/v1/cache/abc", strings.NewReader("cached completion"))
			Expect(err).NotTo(HaveOccurred())
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))

			resp, body := doJSON(server, http.MethodGet, "/v1/cache/abc", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(Equal("cached completion"))
		})
	})
})
