package configcmder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/pkg/cliui"
	"github.com/papercomputeco/manifest/pkg/config"
	"github.com/papercomputeco/manifest/pkg/dotdir"
)

type initCommander struct {
	preset string
	local  bool
	force  bool
}

const initLongDesc string = `Write a fresh config.toml.

Creates the .manifest/ directory if needed and writes the default
configuration, or the configuration of a backend preset. By default the
file goes to the resolved .manifest/ directory (--config-dir, then
./.manifest, then ~/.manifest). Use --local to create ./.manifest instead.

An existing config file is kept unless --force is given.

Examples:
  manifest config init
  manifest config init --preset openaichat
  manifest config init --local --preset huggingface`

const initShortDesc string = "Write a fresh config file"

func newInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.OutOrStdout(), configDir)
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "",
		fmt.Sprintf("Backend preset (%s)", strings.Join(config.ValidPresetNames(), ", ")))
	cmd.Flags().BoolVar(&cmder.local, "local", false, "Create ./.manifest in the current directory")
	cmd.Flags().BoolVar(&cmder.force, "force", false, "Overwrite an existing config file")

	return cmd
}

func (c *initCommander) run(w io.Writer, configDir string) error {
	cfg := config.NewDefaultConfig()
	if c.preset != "" {
		var err error
		cfg, err = config.PresetConfig(c.preset)
		if err != nil {
			return err
		}
	}

	if c.local && configDir == "" {
		configDir = ".manifest"
	}

	ddm := dotdir.NewManager()
	dir, err := ddm.Target(configDir)
	if err != nil {
		return err
	}
	if dir == "" {
		dir, err = ddm.Init("")
		if err != nil {
			return err
		}
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	target := cfger.GetTarget()
	if _, err := os.Stat(target); err == nil && !c.force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", target)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s Wrote %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render(filepath.Clean(target)))
	return nil
}
