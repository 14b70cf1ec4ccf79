package cmdutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/cmd/manifest/sqlitepath"
	"github.com/papercomputeco/manifest/pkg/cache"
	cacheutils "github.com/papercomputeco/manifest/pkg/cache/utils"
	"github.com/papercomputeco/manifest/pkg/config"
)

// OpenCache opens the result cache described by the [cache] section of cfg.
// A sqlite cache without an explicit path lives next to the resolved config.
func OpenCache(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (cache.Cache, error) {
	opts := &cacheutils.NewCacheOpts{
		Driver:      cfg.Cache.Driver,
		PostgresDSN: cfg.Cache.PostgresDSN,
		Logger:      logger,
	}

	if opts.Driver == "sqlite" {
		configDir, _ := cmd.Flags().GetString("config-dir")
		path, err := sqlitepath.ResolveSQLitePath(cfg.Cache.SQLitePath, configDir)
		if err != nil {
			return nil, err
		}
		opts.SQLitePath = path
	}

	store, err := cacheutils.NewCache(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}
