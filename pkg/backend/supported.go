package backend

import (
	"fmt"

	"github.com/papercomputeco/manifest/pkg/request"
)

// Supported backend names
const (
	OpenAI          = "openai"
	OpenAIChat      = "openaichat"
	OpenAIEmbedding = "openaiembedding"
	AzureOpenAI     = "azureopenai"
	Cohere          = "cohere"
	AI21            = "ai21"
	HuggingFace     = "huggingface"
	Diffuser        = "diffuser"
	Toma            = "toma"
	Dummy           = "dummy"
)

// Supported returns the list of all supported backend names.
func Supported() []string {
	return []string{OpenAI, OpenAIChat, OpenAIEmbedding, AzureOpenAI, Cohere, AI21, HuggingFace, Diffuser, Toma, Dummy}
}

// New returns the Backend for the given name.
// Returns an error if the name is not recognized.
func New(name string) (Backend, error) {
	switch name {
	case OpenAI:
		return &table{name: OpenAI, kinds: []request.Kind{request.KindCompletion}, keys: openaiKeys}, nil
	case OpenAIChat:
		return &table{name: OpenAIChat, kinds: []request.Kind{request.KindChat}, keys: openaiChatKeys}, nil
	case OpenAIEmbedding:
		return &table{name: OpenAIEmbedding, kinds: []request.Kind{request.KindEmbedding}, keys: openaiEmbeddingKeys}, nil
	case AzureOpenAI:
		return &table{name: AzureOpenAI, kinds: []request.Kind{request.KindCompletion}, keys: azureOpenAIKeys}, nil
	case Cohere:
		return &table{name: Cohere, kinds: []request.Kind{request.KindCompletion}, keys: cohereKeys}, nil
	case AI21:
		return &table{name: AI21, kinds: []request.Kind{request.KindCompletion}, keys: ai21Keys}, nil
	case HuggingFace:
		return &table{
			name:  HuggingFace,
			kinds: []request.Kind{request.KindCompletion, request.KindScore, request.KindEmbedding},
			keys:  huggingFaceKeys,
		}, nil
	case Diffuser:
		return &table{name: Diffuser, kinds: []request.Kind{request.KindDiffusion}, keys: diffuserKeys}, nil
	case Toma:
		return &table{name: Toma, kinds: []request.Kind{request.KindCompletion}, keys: tomaKeys}, nil
	case Dummy:
		return &table{
			name:  Dummy,
			kinds: []request.Kind{request.KindCompletion, request.KindChat, request.KindScore, request.KindEmbedding},
			keys:  dummyKeys,
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q (supported: %v)", name, Supported())
	}
}
