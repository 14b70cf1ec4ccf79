// Package sqlitepath resolves where the sqlite result cache lives.
package sqlitepath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/manifest/pkg/dotdir"
)

const dbName = "cache.db"

// ResolveSQLitePath returns the cache database path. An explicit override
// wins, then a cache.db inside configDir. Otherwise the first existing
// candidate is used, and failing that a new cache.db in the resolved
// .manifest/ directory (created under the home directory if needed).
func ResolveSQLitePath(override, configDir string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configDir != "" {
		dir, err := dotdir.NewManager().Init(configDir)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, dbName), nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	ddm := dotdir.NewManager()
	dir, err := ddm.Target("")
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir, err = ddm.Init("")
		if err != nil {
			return "", err
		}
	}

	return filepath.Join(dir, dbName), nil
}

func sqliteCandidates() []string {
	candidates := []string{
		filepath.Join(".manifest", dbName),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".manifest", dbName))
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, "manifest", dbName))
	}

	return candidates
}
