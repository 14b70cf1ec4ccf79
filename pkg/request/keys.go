package request

import "sort"

// EngineSep joins engine ids into a compound id when requests for several
// backends are pooled together.
const EngineSep = "::"

// Key maps an internal field name to the name a backend expects. Default is
// reserved: Normalize never reads it.
type Key struct {
	Name    string
	Default any
}

// KeyMap is an allow-list keyed by internal field name.
type KeyMap map[string]Key

// notCacheKeys affect execution but not results; cache keys must exclude them.
var notCacheKeys = map[string]struct{}{
	FieldClientTimeout: {},
	FieldBatchSize:     {},
}

// NotCacheKeys returns the field names excluded from cache key derivation.
func NotCacheKeys() []string {
	keys := make([]string, 0, len(notCacheKeys))
	for k := range notCacheKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsCacheKey reports whether the field participates in cache key derivation.
func IsCacheKey(name string) bool {
	_, ok := notCacheKeys[name]
	return !ok
}

// DefaultRequestKeys is the allow-list every backend carries for the
// execution fields. Its client_timeout default is 60 seconds rather than the
// descriptor's 120.
func DefaultRequestKeys() KeyMap {
	return KeyMap{
		FieldClientTimeout: {Name: FieldClientTimeout, Default: 60},
		FieldBatchSize:     {Name: FieldBatchSize, Default: DefaultBatchSize},
		FieldRunID:         {Name: FieldRunID, Default: nil},
	}
}

// Merge returns a new KeyMap holding m and then each of others; later entries win.
func (m KeyMap) Merge(others ...KeyMap) KeyMap {
	out := make(KeyMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// External returns the external name for an internal field name.
func (m KeyMap) External(name string) string {
	if k, ok := m[name]; ok && k.Name != "" {
		return k.Name
	}
	return name
}

// Invert returns a mapping from external name to internal name. When several
// fields share an external name the lexically smallest internal name wins.
func (m KeyMap) Invert() map[string]string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	out := make(map[string]string, len(m))
	for _, name := range names {
		out[m.External(name)] = name
	}
	return out
}
