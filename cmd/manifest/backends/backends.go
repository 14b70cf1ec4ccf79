// Package backendscmder provides the backends command, which lists the
// supported backends and the parameter names each one uses.
package backendscmder

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/cliui"
	"github.com/papercomputeco/manifest/pkg/request"
)

type backendsCommander struct {
	markdown bool
}

const backendsLongDesc string = `List the supported backends.

Without arguments, prints every backend with the request kinds it serves.
With a backend name, prints its allow-list: each internal field name and
the parameter name the backend uses for it. Use --markdown to render the
allow-list as a markdown table.

Examples:
  manifest backends
  manifest backends cohere
  manifest backends openai --markdown`

const backendsShortDesc string = "List backends and their parameter names"

func NewBackendsCmd() *cobra.Command {
	cmder := &backendsCommander{}

	cmd := &cobra.Command{
		Use:   "backends [name]",
		Short: backendsShortDesc,
		Long:  backendsLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmder.list(cmd.OutOrStdout())
			}
			return cmder.describe(cmd.OutOrStdout(), args[0])
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return backend.Supported(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render the allow-list as markdown")

	return cmd
}

func (c *backendsCommander) list(w io.Writer) error {
	names := backend.Supported()

	maxLen := 0
	for _, name := range names {
		maxLen = max(maxLen, len(name))
	}

	fmt.Fprintf(w, "\n  %s\n\n", cliui.TitleStyle.Render("Backends"))
	for _, name := range names {
		b, err := backend.New(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s\n", cliui.KeyValue(name, maxLen, kindList(b.Kinds())))
	}
	fmt.Fprintln(w)

	return nil
}

func (c *backendsCommander) describe(w io.Writer, name string) error {
	b, err := backend.New(name)
	if err != nil {
		return err
	}

	keys := b.Keys()
	fields := sortedFields(keys)

	if c.markdown {
		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s\n\nServes: %s\n\n", b.Name(), kindList(b.Kinds()))
		sb.WriteString("| field | parameter |\n|---|---|\n")
		for _, f := range fields {
			fmt.Fprintf(&sb, "| `%s` | `%s` |\n", f, keys.External(f))
		}

		out, err := cliui.RenderMarkdown(sb.String())
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		fmt.Fprint(w, out)
		return nil
	}

	maxLen := 0
	for _, f := range fields {
		maxLen = max(maxLen, len(f))
	}

	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.TitleStyle.Render(b.Name()),
		cliui.DimStyle.Render("("+kindList(b.Kinds())+")"),
	)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s\n", cliui.KeyValue(f, maxLen, keys.External(f)))
	}
	fmt.Fprintln(w)

	return nil
}

// sortedFields orders the allow-list by field declaration order, with any
// field no kind declares placed last.
func sortedFields(keys request.KeyMap) []string {
	order := map[string]int{}
	for _, kind := range request.Kinds() {
		names, err := request.Fields(kind)
		if err != nil {
			continue
		}
		for _, n := range names {
			if _, ok := order[n]; !ok {
				order[n] = len(order)
			}
		}
	}

	fields := make([]string, 0, len(keys))
	for f := range keys {
		fields = append(fields, f)
	}

	slices.SortFunc(fields, func(a, b string) int {
		ia, oka := order[a]
		ib, okb := order[b]
		switch {
		case oka && okb:
			return ia - ib
		case oka:
			return -1
		case okb:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return fields
}

func kindList(kinds []request.Kind) string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
