package genopts

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// coerceValue converts a string input toward the property's declared type.
// It reports whether the value changed. Strings that do not parse are
// returned untouched so validation can report the type mismatch.
func coerceValue(p *Property, v any) (any, bool) {
	s, ok := v.(string)
	if !ok || p == nil {
		return v, false
	}
	switch p.Type {
	case "boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b, true
		}
	case "integer":
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return json.Number(s), true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return json.Number(formatFloat(f)), true
		}
	case "number":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			// Canonicalize via float64 formatting for consistency with JSON input.
			return json.Number(formatFloat(f)), true
		}
	case "array":
		if arr, ok := coerceArray(p, s); ok {
			return arr, true
		}
	case "object":
		if m, ok := decodeJSONValue[map[string]any](s, "{"); ok {
			return m, true
		}
	}
	return v, false
}

// coerceArray accepts a JSON array literal or a comma-separated list.
func coerceArray(p *Property, s string) ([]any, bool) {
	if arr, ok := decodeJSONValue[[]any](s, "["); ok {
		return arr, true
	}
	if s == "" {
		return []any{}, true
	}
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		el := any(strings.TrimSpace(part))
		if p.Items != nil {
			el, _ = coerceValue(p.Items, el)
		}
		out = append(out, el)
	}
	return out, true
}

func decodeJSONValue[T any](s, open string) (T, bool) {
	var zero T
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, open) {
		return zero, false
	}
	dec := j.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.UseNumber()
	var out T
	if err := dec.Decode(&out); err != nil {
		return zero, false
	}
	return out, true
}
