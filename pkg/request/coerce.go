package request

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

func setInt(dst *int, v any) error {
	if v == nil {
		return ErrNotNullable
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v any) error {
	if v == nil {
		return ErrNotNullable
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func toString(v any) (string, error) {
	if v == nil {
		return "", ErrNotNullable
	}
	return cast.ToStringE(v)
}

// toStrings accepts a list of strings. A bare string is rejected rather than
// split into words.
func toStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case string:
		return nil, errors.New("expected a list of strings, got a string")
	case []string:
		return append([]string{}, s...), nil
	case []any:
		out := make([]string, 0, len(s))
		for i, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d: expected a string, got %T", i, item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}

// toPrompt coerces a prompt override into Text, Texts or Messages. An empty
// generic list becomes an empty Texts.
func toPrompt(v any) (Prompt, error) {
	switch p := v.(type) {
	case nil:
		return nil, ErrNotNullable
	case Prompt:
		return p, nil
	case string:
		return Text(p), nil
	case []string:
		return Texts(append([]string{}, p...)), nil
	case []ChatMessage:
		return Messages(append([]ChatMessage{}, p...)), nil
	case []map[string]string:
		msgs := make(Messages, 0, len(p))
		for _, m := range p {
			msgs = append(msgs, copyMessage(m))
		}
		return msgs, nil
	case []map[string]any:
		msgs := make(Messages, 0, len(p))
		for i, m := range p {
			msg, err := cast.ToStringMapStringE(m)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			msgs = append(msgs, msg)
		}
		return msgs, nil
	case []any:
		return listPrompt(p)
	default:
		return nil, fmt.Errorf("unsupported prompt type %T", v)
	}
}

func listPrompt(items []any) (Prompt, error) {
	if len(items) == 0 {
		return Texts{}, nil
	}

	if _, ok := items[0].(string); ok {
		texts := make(Texts, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("prompt item %d: expected a string, got %T", i, item)
			}
			texts = append(texts, s)
		}
		return texts, nil
	}

	msgs := make(Messages, 0, len(items))
	for i, item := range items {
		switch m := item.(type) {
		case map[string]any, map[string]string:
			msg, err := cast.ToStringMapStringE(m)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			msgs = append(msgs, msg)
		case ChatMessage:
			msgs = append(msgs, copyMessage(m))
		default:
			return nil, fmt.Errorf("prompt item %d: expected a string or a message, got %T", i, item)
		}
	}
	return msgs, nil
}

func copyMessage(m map[string]string) ChatMessage {
	cp := make(ChatMessage, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
