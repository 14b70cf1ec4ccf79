// Package backend holds the parameter allow-lists of the supported model
// backends and normalizes descriptors into their request shapes.
package backend

import (
	"errors"
	"fmt"
	"slices"

	"github.com/papercomputeco/manifest/pkg/request"
)

// ErrUnsupportedKind is returned when a backend does not serve a request kind.
var ErrUnsupportedKind = errors.New("request kind not supported by backend")

// Backend describes how one vendor API names its request parameters.
type Backend interface {
	// Name returns the canonical backend name (e.g., "openai", "cohere").
	Name() string

	// Kinds returns the request kinds the backend serves.
	Kinds() []request.Kind

	// Supports reports whether the backend serves kind.
	Supports(kind request.Kind) bool

	// Keys returns the backend allow-list, including the default request keys.
	Keys() request.KeyMap

	// Normalize converts d into the backend's parameter mapping. The prompt
	// is kept only when keepPrompt is set.
	Normalize(d request.Descriptor, keepPrompt bool) (*request.Dict, error)
}

// table is a Backend defined entirely by data.
type table struct {
	name  string
	kinds []request.Kind
	keys  request.KeyMap
}

func (t *table) Name() string {
	return t.name
}

func (t *table) Kinds() []request.Kind {
	return slices.Clone(t.kinds)
}

func (t *table) Supports(kind request.Kind) bool {
	return slices.Contains(t.kinds, kind)
}

func (t *table) Keys() request.KeyMap {
	return request.DefaultRequestKeys().Merge(t.keys)
}

func (t *table) Normalize(d request.Descriptor, keepPrompt bool) (*request.Dict, error) {
	if !t.Supports(d.Kind()) {
		return nil, fmt.Errorf("%w: %s does not serve %s requests", ErrUnsupportedKind, t.name, d.Kind())
	}
	return request.Normalize(d, t.Keys(), keepPrompt), nil
}
