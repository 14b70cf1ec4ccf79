package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/manifest/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the MANIFEST_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (MANIFEST_BACKEND_NAME, MANIFEST_REQUEST_ENGINE, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("MANIFEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Request
	v.SetDefault("request.kind", d.Request.Kind)
	v.SetDefault("request.engine", d.Request.Engine)
	v.SetDefault("request.n", d.Request.N)
	v.SetDefault("request.client_timeout", d.Request.ClientTimeout)
	v.SetDefault("request.batch_size", d.Request.BatchSize)

	// Backend
	v.SetDefault("backend.name", d.Backend.Name)

	// Cache
	v.SetDefault("cache.driver", d.Cache.Driver)
	v.SetDefault("cache.sqlite_path", d.Cache.SQLitePath)
	v.SetDefault("cache.postgres_dsn", d.Cache.PostgresDSN)
}

// FromViper builds a Config from the resolved viper values, including the
// free-form request.params table from the config file.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Version: v.GetInt("version"),
		Request: RequestConfig{
			Kind:          v.GetString("request.kind"),
			Engine:        v.GetString("request.engine"),
			N:             v.GetInt("request.n"),
			ClientTimeout: v.GetInt("request.client_timeout"),
			BatchSize:     v.GetInt("request.batch_size"),
		},
		Backend: BackendConfig{
			Name: v.GetString("backend.name"),
		},
		Cache: CacheConfig{
			Driver:      v.GetString("cache.driver"),
			SQLitePath:  v.GetString("cache.sqlite_path"),
			PostgresDSN: v.GetString("cache.postgres_dsn"),
		},
	}

	if params := v.GetStringMap("request.params"); len(params) > 0 {
		cfg.Request.Params = params
	}

	return cfg
}
