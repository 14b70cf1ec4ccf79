package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/manifest/pkg/backend"
	"github.com/papercomputeco/manifest/pkg/dotdir"
	"github.com/papercomputeco/manifest/pkg/request"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	// If no .manifest/ directory was resolved, targetPath stays empty;
	// LoadConfig will return defaults and SaveConfig will error clearly.
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns the list of all supported configuration key names
// in TOML section order.
func ValidConfigKeys() []string {
	ordered := []string{
		"request.kind",
		"request.engine",
		"request.n",
		"request.client_timeout",
		"request.batch_size",
		"backend.name",
		"cache.driver",
		"cache.sqlite_path",
		"cache.postgres_dsn",
	}

	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}
	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads the configuration from config.toml in the target .manifest/ directory.
// If the file does not exist, returns NewDefaultConfig() so callers always receive
// a fully-populated Config. Fields explicitly set in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.Request.Kind == "" {
		cfg.Request.Kind = defaults.Request.Kind
	}
	if cfg.Request.Engine == "" {
		cfg.Request.Engine = defaults.Request.Engine
	}
	if cfg.Request.N == 0 {
		cfg.Request.N = defaults.Request.N
	}
	if cfg.Request.ClientTimeout == 0 {
		cfg.Request.ClientTimeout = defaults.Request.ClientTimeout
	}
	if cfg.Request.BatchSize == 0 {
		cfg.Request.BatchSize = defaults.Request.BatchSize
	}

	if cfg.Backend.Name == "" {
		cfg.Backend.Name = defaults.Backend.Name
	}

	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = defaults.Cache.Driver
	}
}

// SaveConfig persists the configuration to config.toml in the target .manifest/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	if err := c.ensureTarget(); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// ensureTarget creates ~/.manifest/ when no directory was resolved.
func (c *Configer) ensureTarget() error {
	if c.targetPath != "" {
		return nil
	}

	dir, err := c.ddm.Init("")
	if err != nil {
		return err
	}

	c.targetPath = filepath.Join(dir, configFile)
	return nil
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// PresetConfig returns a Config with sane defaults for the named backend preset.
// Supported presets: "openai", "openaichat", "cohere", "huggingface", "diffuser".
// Returns an error if the preset name is not recognized.
func PresetConfig(name string) (*Config, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "openai":
		cfg.Backend.Name = backend.OpenAI
		cfg.Request.Engine = "text-davinci-003"

	case "openaichat":
		cfg.Backend.Name = backend.OpenAIChat
		cfg.Request.Kind = string(request.KindChat)
		cfg.Request.Engine = "gpt-3.5-turbo"

	case "cohere":
		cfg.Backend.Name = backend.Cohere
		cfg.Request.Engine = "xlarge"

	case "huggingface":
		cfg.Backend.Name = backend.HuggingFace
		cfg.Request.Engine = "gpt2"

	case "diffuser":
		cfg.Backend.Name = backend.Diffuser
		cfg.Request.Kind = string(request.KindDiffusion)
		cfg.Request.Engine = "stable-diffusion-v1-5"

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	return cfg, nil
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"openai", "openaichat", "cohere", "huggingface", "diffuser"}
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV,
// or if the request kind or backend name is not recognized.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	if cfg.Request.Kind != "" {
		if _, err := request.ParseKind(cfg.Request.Kind); err != nil {
			return nil, fmt.Errorf("parsing config TOML: %w", err)
		}
	}

	if cfg.Backend.Name != "" {
		if _, err := backend.New(cfg.Backend.Name); err != nil {
			return nil, fmt.Errorf("parsing config TOML: %w", err)
		}
	}

	return cfg, nil
}
