// Package cachekeycmder provides the cache-key command, which derives the
// result cache key of a request and optionally reads or writes the cache.
package cachekeycmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/cmd/manifest/cmdutil"
	"github.com/papercomputeco/manifest/pkg/cache"
	"github.com/papercomputeco/manifest/pkg/cliui"
	"github.com/papercomputeco/manifest/pkg/config"
	"github.com/papercomputeco/manifest/pkg/utils"
)

type cacheKeyCommander struct {
	opts cmdutil.RequestOptions

	showParams bool
	lookup     bool
	put        string

	cacheDriver string
	sqlitePath  string
	postgresDSN string

	logger *slog.Logger
}

const cacheKeyLongDesc string = `Print the result cache key of a request.

The key is the SHA-256 of the request's set fields, under their internal
names, with client_timeout and batch_size left out, the backend name
added as client_name and the request kind added as request_type. Two
requests that differ only in execution settings share a key.

Use --lookup to print the cached result for the key, or --put to store a
result under it. The cache driver and its location come from config unless
overridden with --cache-driver, --cache-sqlite and --cache-postgres.

Examples:
  manifest cache-key --prompt "Hello"
  manifest cache-key --prompt "Hello" --params
  manifest cache-key --prompt "Hello" --cache-driver sqlite --put '{"text":"Hi"}'
  manifest cache-key --prompt "Hello" --cache-driver sqlite --lookup`

const cacheKeyShortDesc string = "Print the result cache key of a request"

func NewCacheKeyCmd() *cobra.Command {
	cmder := &cacheKeyCommander{}

	cmd := &cobra.Command{
		Use:   "cache-key",
		Short: cacheKeyShortDesc,
		Long:  cacheKeyLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmder.lookup && cmd.Flags().Changed("put") {
				return errors.New("--lookup and --put cannot be combined")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmder.opts.AddFlags(cmd)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagCacheDriver, &cmder.cacheDriver)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagCacheSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagCachePG, &cmder.postgresDSN)
	cmd.Flags().BoolVar(&cmder.showParams, "params", false, "Also print the parameters the key is derived from")
	cmd.Flags().BoolVar(&cmder.lookup, "lookup", false, "Print the cached result for the key")
	cmd.Flags().StringVar(&cmder.put, "put", "", "Store this value as the cached result for the key")

	return cmd
}

func (c *cacheKeyCommander) run(cmd *cobra.Command) error {
	var (
		closeLog func()
		err      error
	)
	c.logger, closeLog, err = cmdutil.NewLogger(cmd, "cache")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := cmdutil.Config(cmd, config.FlagCacheDriver, config.FlagCacheSQLite, config.FlagCachePG)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	d, b, err := c.opts.Build(cfg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	key, err := cache.Key(b.Name(), d)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, key)

	if c.showParams {
		data, err := json.MarshalIndent(cache.KeyParams(b.Name(), d), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding params: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}

	if !c.lookup && !cmd.Flags().Changed("put") {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := cmdutil.OpenCache(ctx, cmd, cfg, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.lookup {
		value, err := store.Get(ctx, key)
		if err != nil {
			var notFound cache.ErrNotFound
			if errors.As(err, &notFound) {
				fmt.Fprintf(out, "%s %s\n", cliui.FailMark, cliui.DimStyle.Render("not cached"))
				return nil
			}
			return err
		}
		fmt.Fprintln(out, string(value))
		return nil
	}

	msg := fmt.Sprintf("Storing %s", utils.Truncate(c.put, 32))
	return cliui.Step(cmd.ErrOrStderr(), msg, func() error {
		return store.Set(ctx, key, []byte(c.put))
	})
}
