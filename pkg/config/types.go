package config

import (
	"fmt"
	"strconv"

	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/request"
)

// Config represents the persistent manifest configuration stored as config.toml
// in the .manifest/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Request RequestConfig `toml:"request"`
	Backend BackendConfig `toml:"backend"`
	Cache   CacheConfig   `toml:"cache"`
}

// RequestConfig holds the default descriptor overrides applied before any
// command line overrides.
type RequestConfig struct {
	Kind          string `toml:"kind,omitempty"`
	Engine        string `toml:"engine,omitempty"`
	N             int    `toml:"n,omitempty"`
	ClientTimeout int    `toml:"client_timeout,omitempty"`
	BatchSize     int    `toml:"batch_size,omitempty"`

	// Params holds any other descriptor fields, keyed by internal field name.
	Params map[string]any `toml:"params,omitempty"`
}

// BackendConfig selects the backend whose allow-list shapes normalized requests.
type BackendConfig struct {
	Name string `toml:"name,omitempty"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// Overrides returns the descriptor overrides carried by the request section.
// Zero values are left out so the descriptor defaults apply.
func (c *Config) Overrides() map[string]any {
	out := make(map[string]any, len(c.Request.Params)+4)
	for k, v := range c.Request.Params {
		out[k] = v
	}

	if c.Request.Engine != "" {
		out[request.FieldEngine] = c.Request.Engine
	}
	if c.Request.N != 0 {
		out[request.FieldN] = c.Request.N
	}
	if c.Request.ClientTimeout != 0 {
		out[request.FieldClientTimeout] = c.Request.ClientTimeout
	}
	if c.Request.BatchSize != 0 {
		out[request.FieldBatchSize] = c.Request.BatchSize
	}

	return out
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"request.kind": {
		get: func(c *Config) string { return c.Request.Kind },
		set: func(c *Config, v string) error {
			if _, err := request.ParseKind(v); err != nil {
				return err
			}
			c.Request.Kind = v
			return nil
		},
	},
	"request.engine": {
		get: func(c *Config) string { return c.Request.Engine },
		set: func(c *Config, v string) error {
			c.Request.Engine = v
			return nil
		},
	},
	"request.n": {
		get: func(c *Config) string { return intString(c.Request.N) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.Request.N, "request.n", v) },
	},
	"request.client_timeout": {
		get: func(c *Config) string { return intString(c.Request.ClientTimeout) },
		set: func(c *Config, v string) error {
			return setPositiveInt(&c.Request.ClientTimeout, "request.client_timeout", v)
		},
	},
	"request.batch_size": {
		get: func(c *Config) string { return intString(c.Request.BatchSize) },
		set: func(c *Config, v string) error {
			return setPositiveInt(&c.Request.BatchSize, "request.batch_size", v)
		},
	},
	"backend.name": {
		get: func(c *Config) string { return c.Backend.Name },
		set: func(c *Config, v string) error {
			if _, err := backend.New(v); err != nil {
				return err
			}
			c.Backend.Name = v
			return nil
		},
	},
	"cache.driver": {
		get: func(c *Config) string { return c.Cache.Driver },
		set: func(c *Config, v string) error {
			switch v {
			case "memory", "sqlite", "postgres":
				c.Cache.Driver = v
				return nil
			default:
				return fmt.Errorf("invalid value for cache.driver: %q (supported: memory, sqlite, postgres)", v)
			}
		},
	},
	"cache.sqlite_path": {
		get: func(c *Config) string { return c.Cache.SQLitePath },
		set: func(c *Config, v string) error { c.Cache.SQLitePath = v; return nil },
	},
	"cache.postgres_dsn": {
		get: func(c *Config) string { return c.Cache.PostgresDSN },
		set: func(c *Config, v string) error { c.Cache.PostgresDSN = v; return nil },
	},
}

func intString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func setPositiveInt(dst *int, key, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if n <= 0 {
		return fmt.Errorf("invalid value for %s: must be positive", key)
	}
	*dst = n
	return nil
}
