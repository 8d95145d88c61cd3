package normalize

// envelopeKeys are the wrapper fields some endpoints put around a list.
var envelopeKeys = []string{"items", "data", "results"}

// Record returns v as an object, or an empty object for anything else.
func Record(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Items accepts a bare array, an object wrapping an array under one of the
// envelope keys, or a single object, and returns the list of records. Array
// elements that are not objects become empty records.
func Items(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			out = append(out, Record(item))
		}
		return out
	case map[string]any:
		for _, k := range envelopeKeys {
			if inner, ok := t[k].([]any); ok {
				return Items(inner)
			}
		}
		return []map[string]any{t}
	default:
		return []map[string]any{}
	}
}

// First returns the first record of v, or an empty record.
func First(v any) map[string]any {
	items := Items(v)
	if len(items) == 0 {
		return map[string]any{}
	}
	return items[0]
}
