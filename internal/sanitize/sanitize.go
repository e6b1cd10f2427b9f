// Package sanitize makes decoded upstream payloads safe for JSON output.
package sanitize

import "time"

// ISOLayout renders instants in UTC with millisecond precision, e.g.
// 2024-01-15T14:30:00.000Z.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Value walks a JSON-like tree (maps, slices, scalars) and replaces every
// timestamp with its ISO-8601 string. The input is never mutated; maps and
// slices are copied on the way down. Applying Value to its own output
// returns an equal tree.
func Value(v any) any {
	switch x := v.(type) {
	case time.Time:
		return ISO(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return ISO(*x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Value(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i, item := range x {
			out[i] = Map(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Value(item)
		}
		return out
	case []time.Time:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ISO(item)
		}
		return out
	default:
		return v
	}
}

// Map is Value specialised for object roots.
func Map(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := Value(m).(map[string]any)
	return out
}

// ISO formats t as an ISO-8601 UTC string.
func ISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
