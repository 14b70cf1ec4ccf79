package backend

import (
	"github.com/papercomputeco/manifest/pkg/request"
)

// Input describes a request addressed to a named backend.
type Input struct {
	// Kind is the request kind. Empty means completion.
	Kind string `json:"kind,omitempty"`

	// Backend is the backend name.
	Backend string `json:"backend"`

	// Params are overrides keyed by internal field name.
	Params map[string]any `json:"params,omitempty"`

	// External are overrides keyed by the backend's own parameter names.
	// Params win over External when both set a field.
	External map[string]any `json:"external,omitempty"`
}

// Prepare resolves the backend named by in and builds its descriptor.
func Prepare(in Input) (request.Descriptor, Backend, error) {
	kind := request.KindCompletion
	if in.Kind != "" {
		var err error
		kind, err = request.ParseKind(in.Kind)
		if err != nil {
			return nil, nil, err
		}
	}

	b, err := New(in.Backend)
	if err != nil {
		return nil, nil, err
	}

	overrides := request.Internalize(in.External, b.Keys())
	for k, v := range in.Params {
		overrides[k] = v
	}

	d, err := request.New(kind, overrides)
	if err != nil {
		return nil, nil, err
	}
	return d, b, nil
}
