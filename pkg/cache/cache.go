// Package cache derives cache keys from request descriptors and defines the
// interface result caches implement.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/manifest/pkg/request"
)

// ClientNameKey is the parameter that binds a cache key to its backend.
const ClientNameKey = "client_name"

// RequestTypeKey is the parameter that binds a cache key to its request kind.
const RequestTypeKey = "request_type"

// Cache stores backend responses keyed by Key.
type Cache interface {
	// Get returns the cached value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the cache.
	Close() error
}

// KeyParams returns the parameters that identify d's result for the named
// backend: every set field except the non-cache keys, plus the backend name
// and the request kind.
func KeyParams(backendName string, d request.Descriptor) *request.Dict {
	params := request.Normalize(d, nil, true)
	for _, k := range request.NotCacheKeys() {
		params.Delete(k)
	}
	params.Set(ClientNameKey, backendName)
	params.Set(RequestTypeKey, d.Kind().String())
	return params
}

// Key returns the hex SHA-256 of the canonical (sorted key) JSON encoding of
// KeyParams.
func Key(backendName string, d request.Descriptor) (string, error) {
	data, err := json.Marshal(KeyParams(backendName, d).Map())
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
