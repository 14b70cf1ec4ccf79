package cmdutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/config"
	"github.com/papercomputeco/manifest/pkg/request"
)

// RequestOptions are the flags that shape the descriptor a command builds.
// Values are layered in this order, later layers winning: config defaults,
// the params file, --set, then --prompt/--message and --new-run.
type RequestOptions struct {
	Kind    string
	Backend string
	Engine  string

	Sets       []string
	Prompts    []string
	Messages   []string
	ParamsFile string
	NewRun     bool
}

var requestFlagKeys = []string{
	config.FlagKind,
	config.FlagBackend,
	config.FlagEngine,
}

// AddFlags registers the request flags on cmd.
func (o *RequestOptions) AddFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagKind, &o.Kind)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagBackend, &o.Backend)
	config.AddStringFlag(cmd, config.RequestFlags, config.FlagEngine, &o.Engine)

	cmd.Flags().StringArrayVar(&o.Sets, "set", nil, "Override a field as key=value; values are parsed as JSON when possible")
	cmd.Flags().StringArrayVarP(&o.Prompts, "prompt", "p", nil, "Prompt text; repeat for a list of prompts")
	cmd.Flags().StringArrayVarP(&o.Messages, "message", "m", nil, "Chat message as role:content; repeat for a conversation")
	cmd.Flags().StringVarP(&o.ParamsFile, "params-file", "f", "", "JSON file of backend-shaped parameters ('-' for stdin)")
	cmd.Flags().BoolVar(&o.NewRun, "new-run", false, "Assign a fresh run id")
}

// Config resolves the layered configuration for cmd, binding the request
// flags into viper so they take precedence over env and file values.
func Config(cmd *cobra.Command, keys ...string) (*config.Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}

	bindFlags(v, cmd, keys)
	return config.FromViper(v), nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, extra []string) {
	keys := append(append([]string{}, requestFlagKeys...), extra...)
	config.BindRegisteredFlags(v, cmd, config.RequestFlags, keys)
}

// Build resolves the backend named in cfg and builds the descriptor.
func (o *RequestOptions) Build(cfg *config.Config, stdin io.Reader) (request.Descriptor, backend.Backend, error) {
	kind, err := request.ParseKind(cfg.Request.Kind)
	if err != nil {
		return nil, nil, err
	}

	b, err := backend.New(cfg.Backend.Name)
	if err != nil {
		return nil, nil, err
	}

	overrides := cfg.Overrides()

	if o.ParamsFile != "" {
		params, err := readParams(o.ParamsFile, stdin)
		if err != nil {
			return nil, nil, err
		}
		for k, v := range request.Internalize(params, b.Keys()) {
			overrides[k] = v
		}
	}

	for _, s := range o.Sets {
		k, v, err := ParseSet(s)
		if err != nil {
			return nil, nil, err
		}
		overrides[k] = v
	}

	prompt, err := o.prompt()
	if err != nil {
		return nil, nil, err
	}
	if prompt != nil {
		overrides[request.FieldPrompt] = prompt
	}

	if o.NewRun {
		overrides[request.FieldRunID] = uuid.NewString()
	}

	d, err := request.New(kind, overrides)
	if err != nil {
		return nil, nil, err
	}

	return d, b, nil
}

func (o *RequestOptions) prompt() (any, error) {
	switch {
	case len(o.Messages) > 0 && len(o.Prompts) > 0:
		return nil, errors.New("--prompt and --message cannot be combined")

	case len(o.Messages) > 0:
		msgs := make([]request.ChatMessage, 0, len(o.Messages))
		for _, m := range o.Messages {
			role, content, ok := strings.Cut(m, ":")
			if !ok || role == "" {
				return nil, fmt.Errorf("invalid message %q: expected role:content", m)
			}
			msgs = append(msgs, request.NewMessage(role, content))
		}
		return msgs, nil

	case len(o.Prompts) == 1:
		return o.Prompts[0], nil

	case len(o.Prompts) > 1:
		return o.Prompts, nil
	}

	return nil, nil
}

// ParseSet splits a key=value override. The value is decoded as JSON when
// it parses, so numbers, booleans, lists and null keep their types; anything
// else is taken as a plain string.
func ParseSet(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid --set %q: expected key=value", s)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return key, raw, nil
	}
	return key, v, nil
}

func readParams(path string, stdin io.Reader) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading params: %w", err)
	}

	params := map[string]any{}
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("parsing params: %w", err)
	}
	return params, nil
}
