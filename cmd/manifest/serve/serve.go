// Package servecmder provides the serve command, which runs the HTTP API
// (and optionally the MCP endpoint) over the request normalizer and cache.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/api"
	"github.com/papercomputeco/manifest/cmd/manifest/cmdutil"
	"github.com/papercomputeco/manifest/pkg/config"
)

type serveCommander struct {
	listen string
	mcp    bool
	watch  bool

	backend     string
	cacheDriver string
	sqlitePath  string
	postgresDSN string

	logger *slog.Logger
}

const serveLongDesc string = `Run the Manifest API server.

The server normalizes requests for any supported backend, derives result
cache keys, and reads and writes the configured result cache over HTTP:

  GET  /v1/backends          List backends and their parameter names
  GET  /v1/backends/:name    Describe one backend
  POST /v1/normalize         Normalize a request for a backend
  POST /v1/cache-key         Derive the cache key of a request
  GET  /v1/cache/:key        Read a cached result
  PUT  /v1/cache/:key        Store a cached result
  GET  /metrics              Prometheus metrics

With --mcp, the same operations are also exposed as MCP tools at /mcp.
Requests that name no backend use --backend (or backend.name in config).
With --watch, edits to config.toml change that default backend without a
restart, unless --backend was given.`

const serveShortDesc string = "Run the Manifest API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":8081", "Address for API server to listen on")
	cmd.Flags().BoolVar(&cmder.mcp, "mcp", false, "Also serve MCP tools at /mcp")
	cmd.Flags().BoolVar(&cmder.watch, "watch", false, "Reload the default backend when config.toml changes")
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagBackend, &cmder.backend)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagCacheDriver, &cmder.cacheDriver)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagCacheSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagCachePG, &cmder.postgresDSN)

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	var (
		closeLog func()
		err      error
	)
	c.logger, closeLog, err = cmdutil.NewLogger(cmd, "serve")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := cmdutil.Config(cmd, config.FlagCacheDriver, config.FlagCacheSQLite, config.FlagCachePG)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	server, err := api.NewServer(api.Config{
		ListenAddr:     c.listen,
		DefaultBackend: cfg.Backend.Name,
		MCP:            c.mcp,
	}, store, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if c.watch && !cmd.Flags().Changed(config.RequestFlags[config.FlagBackend].Name) {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := c.watchConfig(watchCtx, cmd, server); err != nil {
			return err
		}
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	case <-ctx.Done():
		return server.Shutdown()
	}
}

func (c *serveCommander) watchConfig(ctx context.Context, cmd *cobra.Command, server *api.Server) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfger.GetTarget() == "" {
		return errors.New("--watch needs a .manifest/ directory; run 'manifest config init' first")
	}

	go func() {
		err := cfger.Watch(ctx, func(cfg *config.Config, err error) {
			if err != nil {
				c.logger.Warn("ignoring invalid config", "error", err)
				return
			}
			if cfg.Backend.Name == server.DefaultBackend() {
				return
			}
			server.SetDefaultBackend(cfg.Backend.Name)
			c.logger.Info("default backend changed", "backend", cfg.Backend.Name)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("config watcher stopped", "error", err)
		}
	}()

	c.logger.Debug("watching config", "path", cfger.GetTarget())
	return nil
}
