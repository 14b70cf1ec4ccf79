package cache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/manifest/pkg/cache"
	"github.com/papercomputeco/manifest/pkg/cache/inmemory"
	"github.com/papercomputeco/manifest/pkg/cache/sqlite"
	cacheutils "github.com/papercomputeco/manifest/pkg/cache/utils"
	"github.com/papercomputeco/manifest/pkg/request"
)

var _ = Describe("Key", func() {
	newLM := func(overrides map[string]any) request.Descriptor {
		d, err := request.New(request.KindCompletion, overrides)
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	It("omits the non-cache keys and adds the client name", func() {
		params := cache.KeyParams("openai", newLM(nil))
		Expect(params.Has("client_timeout")).To(BeFalse())
		Expect(params.Has("batch_size")).To(BeFalse())
		Expect(params.Map()).To(HaveKeyWithValue("client_name", "openai"))
		Expect(params.Map()).To(HaveKeyWithValue("temperature", 0.7))
	})

	It("ignores client_timeout and batch_size", func() {
		a, err := cache.Key("openai", newLM(map[string]any{"client_timeout": 5, "batch_size": 1}))
		Expect(err).NotTo(HaveOccurred())
		b, err := cache.Key("openai", newLM(map[string]any{"client_timeout": 300, "batch_size": 64}))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
		Expect(a).To(HaveLen(64))
	})

	It("changes with generation parameters", func() {
		a, err := cache.Key("openai", newLM(map[string]any{"temperature": 0.1}))
		Expect(err).NotTo(HaveOccurred())
		b, err := cache.Key("openai", newLM(map[string]any{"temperature": 0.2}))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})

	It("changes with the backend", func() {
		a, err := cache.Key("openai", newLM(nil))
		Expect(err).NotTo(HaveOccurred())
		b, err := cache.Key("cohere", newLM(nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})

	It("changes with the kind", func() {
		completion, err := request.New(request.KindCompletion, map[string]any{"prompt": "hi"})
		Expect(err).NotTo(HaveOccurred())
		score, err := request.New(request.KindScore, map[string]any{"prompt": "hi"})
		Expect(err).NotTo(HaveOccurred())

		a, err := cache.Key("huggingface", completion)
		Expect(err).NotTo(HaveOccurred())
		b, err := cache.Key("huggingface", score)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))

		Expect(cache.KeyParams("huggingface", score).Map()).To(HaveKeyWithValue("request_type", "score"))
	})

	It("changes with the run id", func() {
		a, err := cache.Key("openai", newLM(nil))
		Expect(err).NotTo(HaveOccurred())
		b, err := cache.Key("openai", newLM(map[string]any{"run_id": "r1"}))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})
})

var _ = Describe("Drivers", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	exercise := func(c cache.Cache) {
		_, err := c.Get(ctx, "missing")
		var nf cache.ErrNotFound
		Expect(errors.As(err, &nf)).To(BeTrue())
		Expect(nf.Key).To(Equal("missing"))

		Expect(c.Set(ctx, "k", []byte("v1"))).To(Succeed())
		v, err := c.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(v)).To(Equal("v1"))

		Expect(c.Set(ctx, "k", []byte("v2"))).To(Succeed())
		v, err = c.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(v)).To(Equal("v2"))
	}

	It("works in memory", func() {
		c := inmemory.NewCache()
		defer c.Close()
		exercise(c)
	})

	It("works on sqlite in memory", func() {
		c, err := sqlite.NewCache(":memory:")
		Expect(err).NotTo(HaveOccurred())
		defer c.Close()
		exercise(c)
	})

	It("persists sqlite entries across reopen", func() {
		tmpDir, err := os.MkdirTemp("", "cache-test-*")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(tmpDir)
		path := filepath.Join(tmpDir, "cache.sqlite")

		c, err := sqlite.NewCache(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Set(ctx, "k", []byte("kept"))).To(Succeed())
		Expect(c.Close()).To(Succeed())

		c, err = sqlite.NewCache(path)
		Expect(err).NotTo(HaveOccurred())
		defer c.Close()

		v, err := c.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(v)).To(Equal("kept"))
	})

	Describe("NewCache", func() {
		It("defaults to the in-memory driver", func() {
			c, err := cacheutils.NewCache(ctx, &cacheutils.NewCacheOpts{})
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeAssignableToTypeOf(&inmemory.Cache{}))
		})

		It("opens the sqlite driver", func() {
			c, err := cacheutils.NewCache(ctx, &cacheutils.NewCacheOpts{Driver: "sqlite"})
			Expect(err).NotTo(HaveOccurred())
			defer c.Close()
			Expect(c).To(BeAssignableToTypeOf(&sqlite.Cache{}))
		})

		It("requires a connection string for postgres", func() {
			_, err := cacheutils.NewCache(ctx, &cacheutils.NewCacheOpts{Driver: "postgres"})
			Expect(err).To(MatchError(ContainSubstring("connection string")))
		})

		It("rejects unknown drivers", func() {
			_, err := cacheutils.NewCache(ctx, &cacheutils.NewCacheOpts{Driver: "redis"})
			Expect(err).To(HaveOccurred())
		})
	})
})
