package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline.
type Flag struct {
	// Name is the long flag name (e.g. "backend").
	Name string

	// Shorthand is the one-letter short flag (e.g. "b"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "backend.name").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagKind        = "kind"
	FlagBackend     = "backend"
	FlagEngine      = "engine"
	FlagCacheDriver = "cache-driver"
	FlagCacheSQLite = "cache-sqlite"
	FlagCachePG     = "cache-postgres"
)

// RequestFlags holds the flags shared by the commands that build descriptors.
var RequestFlags = FlagSet{
	FlagKind: {
		Name:        "kind",
		Shorthand:   "k",
		ViperKey:    "request.kind",
		Description: "Request kind (request, completion, chat, score, embedding, diffusion)",
	},
	FlagBackend: {
		Name:        "backend",
		Shorthand:   "b",
		ViperKey:    "backend.name",
		Description: "Backend whose parameter names shape the output",
	},
	FlagEngine: {
		Name:        "engine",
		Shorthand:   "e",
		ViperKey:    "request.engine",
		Description: "Engine id; join several with '::'",
	},
	FlagCacheDriver: {
		Name:        "cache-driver",
		ViperKey:    "cache.driver",
		Description: "Cache driver (memory, sqlite, postgres)",
	},
	FlagCacheSQLite: {
		Name:        "cache-sqlite",
		ViperKey:    "cache.sqlite_path",
		Description: "Path to the SQLite cache database",
	},
	FlagCachePG: {
		Name:        "cache-postgres",
		ViperKey:    "cache.postgres_dsn",
		Description: "PostgreSQL connection string for the postgres cache driver",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
