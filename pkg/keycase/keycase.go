// Package keycase converts map keys between camelCase and snake_case
// at the persistence boundary. Both transforms recurse through nested
// maps and slices and are lossless for conventional keys, so a value
// round-trips unchanged.
package keycase

import "strings"

// SnakeKeys returns a copy of v with every map key in snake_case.
func SnakeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, inner := range val {
			out[ToSnake(key)] = SnakeKeys(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = SnakeKeys(inner)
		}
		return out
	default:
		return v
	}
}

// CamelKeys returns a copy of v with every map key in camelCase.
func CamelKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, inner := range val {
			out[ToCamel(key)] = CamelKeys(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = CamelKeys(inner)
		}
		return out
	default:
		return v
	}
}

// ToSnake converts a camelCase key to snake_case.
func ToSnake(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel converts a snake_case key to camelCase.
func ToCamel(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	upperNext := false
	for _, r := range key {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
			upperNext = false
			continue
		}
		upperNext = false
		b.WriteRune(r)
	}
	return b.String()
}
