// Package cacheutils opens the cache driver named in configuration.
package cacheutils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/manifest/pkg/cache"
	"github.com/papercomputeco/manifest/pkg/cache/inmemory"
	"github.com/papercomputeco/manifest/pkg/cache/postgres"
	"github.com/papercomputeco/manifest/pkg/cache/sqlite"
)

type NewCacheOpts struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	Logger      *slog.Logger
}

func NewCache(ctx context.Context, o *NewCacheOpts) (cache.Cache, error) {
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	switch o.Driver {
	case "", "memory":
		log.Debug("using in-memory cache")
		return inmemory.NewCache(), nil

	case "sqlite":
		path := o.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		log.Debug("using sqlite cache", "path", path)
		c, err := sqlite.NewCache(path)
		if err != nil {
			return nil, err
		}
		return c, nil

	case "postgres":
		if o.PostgresDSN == "" {
			return nil, errors.New("postgres cache requires a connection string")
		}
		log.Debug("using postgres cache")
		c, err := postgres.NewCache(ctx, o.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", o.Driver)
	}
}
