// Package manifestcmder
package manifestcmder

import (
	"github.com/spf13/cobra"

	backendscmder "github.com/papercomputeco/manifest/cmd/manifest/backends"
	cachekeycmder "github.com/papercomputeco/manifest/cmd/manifest/cachekey"
	configcmder "github.com/papercomputeco/manifest/cmd/manifest/config"
	normalizecmder "github.com/papercomputeco/manifest/cmd/manifest/normalize"
	servecmder "github.com/papercomputeco/manifest/cmd/manifest/serve"
	versioncmder "github.com/papercomputeco/manifest/cmd/version"
	"github.com/papercomputeco/manifest/pkg/cliui"
)

const manifestLongDesc string = `Manifest builds typed requests for generative model backends.

A request starts from the defaults of its kind (completion, chat, score,
embedding, diffusion), takes overrides from config and flags, and is
normalized into the parameter names a backend expects.

Common commands:
  manifest normalize     Print a request in a backend's shape
  manifest cache-key     Print the result cache key of a request
  manifest backends      List backends and their parameter names
  manifest config        Manage persistent configuration
  manifest serve         Run the HTTP API (and MCP) server`

const manifestShortDesc string = "Manifest - model request schemas"

func NewManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "manifest",
		Short:         manifestShortDesc,
		Long:          manifestLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				cliui.DisableColor()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .manifest/ config directory")
	cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Add subcommands
	cmd.AddCommand(normalizecmder.NewNormalizeCmd())
	cmd.AddCommand(cachekeycmder.NewCacheKeyCmd())
	cmd.AddCommand(backendscmder.NewBackendsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
