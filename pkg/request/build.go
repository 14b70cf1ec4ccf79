package request

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cast"
)

// builder is a descriptor that can accept named overrides.
type builder interface {
	Descriptor
	apply(name string, v any) error
}

// New builds a descriptor of the given kind from its defaults and the given
// overrides. Override values are coerced to the field's type; a value that
// cannot be coerced fails with a *FieldError naming the field.
func New(kind Kind, overrides map[string]any) (Descriptor, error) {
	var b builder
	switch kind {
	case KindRequest:
		r := NewRequest()
		b = &r
	case KindCompletion:
		r := NewLMRequest()
		b = &r
	case KindChat:
		r := NewChatRequest()
		b = &r
	case KindScore:
		r := NewScoreRequest()
		b = &r
	case KindEmbedding:
		r := NewEmbeddingRequest()
		b = &r
	case KindDiffusion:
		r := NewDiffusionRequest()
		b = &r
	default:
		return nil, fmt.Errorf("unknown request kind: %q", kind)
	}

	// Sorted so the reported field is stable when several are invalid.
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := overrides[name]
		if err := b.apply(name, v); err != nil {
			return nil, &FieldError{Field: name, Value: v, Err: err}
		}
	}

	return b, nil
}

// FromExternal builds a descriptor from a backend-shaped parameter mapping,
// translating external names back to internal names through keys.
func FromExternal(kind Kind, params map[string]any, keys KeyMap) (Descriptor, error) {
	return New(kind, Internalize(params, keys))
}

// Internalize renames the external names in params to the internal names
// keys maps them from. Names keys does not mention are kept as is.
func Internalize(params map[string]any, keys KeyMap) map[string]any {
	internal := keys.Invert()
	overrides := make(map[string]any, len(params))
	for name, v := range params {
		if in, ok := internal[name]; ok {
			name = in
		}
		overrides[name] = v
	}
	return overrides
}

func (r *Request) apply(name string, v any) error {
	switch name {
	case FieldPrompt:
		p, err := toPrompt(v)
		if err != nil {
			return err
		}
		if _, ok := p.(Messages); ok {
			return errors.New("prompt must be a string or a list of strings")
		}
		r.Prompt = p
		return nil
	case FieldEngine:
		s, err := toString(v)
		if err != nil {
			return err
		}
		r.Engine = s
		return nil
	case FieldN:
		return setInt(&r.N, v)
	case FieldClientTimeout:
		return setInt(&r.ClientTimeout, v)
	case FieldRunID:
		if v == nil {
			r.RunID = nil
			return nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		r.RunID = &s
		return nil
	case FieldBatchSize:
		return setInt(&r.BatchSize, v)
	default:
		return ErrUnknownField
	}
}

func (r *LMRequest) apply(name string, v any) error {
	switch name {
	case FieldTemperature:
		return setFloat(&r.Temperature, v)
	case FieldMaxTokens:
		return setInt(&r.MaxTokens, v)
	case FieldMaxNewTokens:
		return setInt(&r.MaxNewTokens, v)
	case FieldTopP:
		return setFloat(&r.TopP, v)
	case FieldTopK:
		return setInt(&r.TopK, v)
	case FieldLogprobs:
		if v == nil {
			r.Logprobs = nil
			return nil
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		r.Logprobs = &n
		return nil
	case FieldStopSequences:
		if v == nil {
			r.StopSequences = nil
			return nil
		}
		s, err := toStrings(v)
		if err != nil {
			return err
		}
		r.StopSequences = s
		return nil
	case FieldNumBeams:
		return setInt(&r.NumBeams, v)
	case FieldDoSample:
		if v == nil {
			return ErrNotNullable
		}
		b, err := cast.ToBoolE(v)
		if err != nil {
			return err
		}
		r.DoSample = b
		return nil
	case FieldRepetitionPenalty:
		return setFloat(&r.RepetitionPenalty, v)
	case FieldLengthPenalty:
		return setFloat(&r.LengthPenalty, v)
	case FieldPresencePenalty:
		return setFloat(&r.PresencePenalty, v)
	case FieldFrequencyPenalty:
		return setFloat(&r.FrequencyPenalty, v)
	default:
		return r.Request.apply(name, v)
	}
}

func (r *LMChatRequest) apply(name string, v any) error {
	if name != FieldPrompt {
		return r.LMRequest.apply(name, v)
	}

	p, err := toPrompt(v)
	if err != nil {
		return err
	}
	switch p := p.(type) {
	case Messages:
		r.Prompt = p
	case Texts:
		// An empty list carries no strings and is a valid empty conversation.
		if len(p) != 0 {
			return errors.New("chat prompt must be a list of messages")
		}
		r.Prompt = Messages{}
	default:
		return errors.New("chat prompt must be a list of messages")
	}
	return nil
}

func (r *LMScoreRequest) apply(name string, v any) error {
	return r.LMRequest.apply(name, v)
}

func (r *EmbeddingRequest) apply(name string, v any) error {
	return r.Request.apply(name, v)
}

func (r *DiffusionRequest) apply(name string, v any) error {
	switch name {
	case FieldNumInferenceSteps:
		return setInt(&r.NumInferenceSteps, v)
	case FieldHeight:
		return setInt(&r.Height, v)
	case FieldWidth:
		return setInt(&r.Width, v)
	case FieldGuidanceScale:
		return setFloat(&r.GuidanceScale, v)
	case FieldEta:
		return setFloat(&r.Eta, v)
	default:
		return r.Request.apply(name, v)
	}
}
