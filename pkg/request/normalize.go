package request

// Normalize converts d into a backend parameter mapping.
//
// When keys is non-empty only its fields are considered, plus prompt when
// keepPrompt is set, and each field is emitted under its mapped external
// name. When keys is empty every field is considered. Unset fields are
// always dropped and no defaults are filled in. Output follows field
// declaration order; if two fields map to the same external name the later
// one's value wins.
func Normalize(d Descriptor, keys KeyMap, keepPrompt bool) *Dict {
	var include map[string]bool
	if len(keys) > 0 {
		include = make(map[string]bool, len(keys)+1)
		for name := range keys {
			include[name] = true
		}
		if keepPrompt {
			include[FieldPrompt] = true
		}
	}

	out := NewDict()
	for _, p := range d.Params() {
		if !p.Set {
			continue
		}
		if include != nil && !include[p.Name] {
			continue
		}
		out.Set(keys.External(p.Name), p.Value)
	}
	return out
}
