// Package configcmder provides the config command for managing persistent
// manifest configuration stored in the .manifest/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/pkg/cliui"
	"github.com/papercomputeco/manifest/pkg/config"
)

const configLongDesc string = `Manage persistent manifest configuration.

Configuration is stored as config.toml in the .manifest/ directory and provides
default values for command flags. CLI flags and MANIFEST_* environment
variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  request.kind, request.engine, request.n,
  request.client_timeout, request.batch_size,
  backend.name,
  cache.driver, cache.sqlite_path, cache.postgres_dsn

Other descriptor fields can be given defaults in a [request.params] table
by editing config.toml directly.

Use subcommands to initialize, get, set, or list configuration values:
  manifest config init [--preset <name>]  Write a fresh config file
  manifest config set <key> <value>       Set a configuration value
  manifest config get <key>               Get a configuration value
  manifest config list                    List all configuration values

Examples:
  manifest config init --preset cohere
  manifest config set backend.name openaichat
  manifest config set request.engine openai::gpt-4
  manifest config get request.kind
  manifest config list`

const configShortDesc string = "Manage persistent manifest configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func validateKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func printTarget(w io.Writer, target string) {
	if target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}

func keyCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
