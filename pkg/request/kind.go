// Package request holds typed, backend-agnostic request descriptors for
// generative model backends and normalizes them into backend parameter
// dictionaries.
package request

import "fmt"

// Kind identifies the backend operation a descriptor is built for.
type Kind string

const (
	KindRequest    Kind = "request"
	KindCompletion Kind = "completion"
	KindChat       Kind = "chat"
	KindScore      Kind = "score"
	KindEmbedding  Kind = "embedding"
	KindDiffusion  Kind = "diffusion"
)

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindRequest, KindCompletion, KindChat, KindScore, KindEmbedding, KindDiffusion}
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown request kind: %q (supported: %v)", s, Kinds())
}

func (k Kind) String() string {
	return string(k)
}
