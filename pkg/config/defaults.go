package config

import (
	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/request"
)

const (
	defaultKind        = string(request.KindCompletion)
	defaultBackend     = backend.OpenAI
	defaultCacheDriver = "memory"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Request: RequestConfig{
			Kind:          defaultKind,
			Engine:        request.DefaultEngine,
			N:             request.DefaultN,
			ClientTimeout: request.DefaultClientTimeout,
			BatchSize:     request.DefaultBatchSize,
		},
		Backend: BackendConfig{
			Name: defaultBackend,
		},
		Cache: CacheConfig{
			Driver: defaultCacheDriver,
		},
	}
}
