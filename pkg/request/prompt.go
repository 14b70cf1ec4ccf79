package request

import "slices"

// Prompt is the prompt carried by a descriptor. It is one of Text, Texts or
// Messages; a nil Prompt is unset.
type Prompt interface {
	// Value returns the plain, JSON-representable prompt value.
	Value() any
}

// Text is a single prompt string.
type Text string

// Texts is an ordered batch of prompt strings.
type Texts []string

// ChatMessage is a single role-tagged chat turn, e.g. {"role": "user", "content": "hi"}.
type ChatMessage map[string]string

// Messages is an ordered chat conversation.
type Messages []ChatMessage

func (t Text) Value() any {
	return string(t)
}

func (t Texts) Value() any {
	return slices.Clone([]string(t))
}

func (m Messages) Value() any {
	out := make([]map[string]string, 0, len(m))
	for _, msg := range m {
		cp := make(map[string]string, len(msg))
		for k, v := range msg {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out
}

// NewMessage creates a chat message with the given role and content.
func NewMessage(role, content string) ChatMessage {
	return ChatMessage{"role": role, "content": content}
}
