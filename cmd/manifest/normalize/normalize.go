// Package normalizecmder provides the normalize command, which builds a
// request descriptor and prints it in a backend's parameter shape.
package normalizecmder

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/cmd/manifest/cmdutil"
	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/request"
)

type normalizeCommander struct {
	opts cmdutil.RequestOptions

	raw      bool
	noPrompt bool
	compact  bool
}

const normalizeLongDesc string = `Build a request descriptor and print its normalized parameters as JSON.

Fields start from their defaults, then the [request] section of config.toml,
then --params-file, --set, --prompt/--message and --new-run. The result is
renamed and filtered through the allow-list of --backend. Fields left null
are never printed.

Use --raw to print every set field under its internal name, ignoring the
backend allow-list. Use --no-prompt to leave the prompt out.

Examples:
  manifest normalize --prompt "Hello" --set temperature=0.2
  manifest normalize --backend cohere --set top_k=5 --set n=3
  manifest normalize --kind chat --backend openaichat -m system:"Be brief" -m user:Hi
  manifest normalize --raw --kind diffusion --set height=768
  manifest normalize --backend openai -f params.json`

const normalizeShortDesc string = "Print a request normalized for a backend"

func NewNormalizeCmd() *cobra.Command {
	cmder := &normalizeCommander{}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: normalizeShortDesc,
		Long:  normalizeLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmder.opts.AddFlags(cmd)
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Ignore the backend allow-list and print every set field")
	cmd.Flags().BoolVar(&cmder.noPrompt, "no-prompt", false, "Leave the prompt out of the output")
	cmd.Flags().BoolVar(&cmder.compact, "compact", false, "Print JSON on a single line")

	return cmd
}

func (c *normalizeCommander) run(cmd *cobra.Command) error {
	log, closeLog, err := cmdutil.NewLogger(cmd, "normalize")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := cmdutil.Config(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	d, b, err := c.opts.Build(cfg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	log.Debug("built request", "kind", d.Kind(), "backend", b.Name(), "engine", request.Engine(d))

	out, err := c.normalize(d, b)
	if err != nil {
		return err
	}

	return c.write(cmd.OutOrStdout(), out)
}

func (c *normalizeCommander) normalize(d request.Descriptor, b backend.Backend) (*request.Dict, error) {
	if c.raw {
		out := request.Normalize(d, nil, true)
		if c.noPrompt {
			out.Delete(request.FieldPrompt)
		}
		return out, nil
	}

	return b.Normalize(d, !c.noPrompt)
}

func (c *normalizeCommander) write(w io.Writer, out *request.Dict) error {
	var (
		data []byte
		err  error
	)
	if c.compact {
		data, err = json.Marshal(out)
	} else {
		data, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
