package request

import (
	"fmt"
	"strings"
)

// SplitEngine splits a possibly compound engine id into its parts. Every part
// must be non-empty.
func SplitEngine(id string) ([]string, error) {
	parts := strings.Split(id, EngineSep)
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidEngine, id)
		}
	}
	return parts, nil
}

// JoinEngines composes a compound engine id. Compound inputs are flattened and
// duplicates dropped, keeping first-seen order.
func JoinEngines(ids ...string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, id := range ids {
		for _, p := range strings.Split(id, EngineSep) {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, EngineSep)
}

// UnionEngines returns the compound engine id covering every descriptor.
func UnionEngines(ds ...Descriptor) string {
	ids := make([]string, 0, len(ds))
	for _, d := range ds {
		ids = append(ids, Engine(d))
	}
	return JoinEngines(ids...)
}

// Engine returns the engine id of d.
func Engine(d Descriptor) string {
	for _, p := range d.Params() {
		if p.Name == FieldEngine {
			s, _ := p.Value.(string)
			return s
		}
	}
	return ""
}
