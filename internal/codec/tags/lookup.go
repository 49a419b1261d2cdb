package tags

import "strings"

// Helpers for decoded JSON payloads (map[string]any). Wrong-typed values are
// treated as absent.

// Lookup walks a dot path through nested maps.
func Lookup(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// String returns the string at path, or nil when missing or not a string.
func String(m map[string]any, path string) *string {
	if s, ok := Lookup(m, path).(string); ok {
		return &s
	}
	return nil
}

// NonEmptyString is String with blank values treated as missing. The result
// is trimmed.
func NonEmptyString(m map[string]any, path string) *string {
	s := String(m, path)
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// Float accepts JSON numbers and numeric strings ("8,5" included).
func Float(m map[string]any, path string) *float64 {
	switch v := Lookup(m, path).(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		return ParseNumber(strings.ReplaceAll(v, ",", "."))
	}
	return nil
}

// Bool accepts JSON booleans and the ParseBool spellings.
func Bool(m map[string]any, path string) *bool {
	switch v := Lookup(m, path).(type) {
	case bool:
		return &v
	case string:
		return ParseBool(v)
	case float64:
		b := v != 0
		return &b
	}
	return nil
}

// Object returns the nested object at path.
func Object(m map[string]any, path string) map[string]any {
	if o, ok := Lookup(m, path).(map[string]any); ok {
		return o
	}
	return nil
}
