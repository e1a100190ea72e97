package kontxt

import (
	"fmt"
	"reflect"
	"time"
)

// normalize recursively converts a value into serializable primitives.
// Primitives pass through unchanged, times become ISO-8601 strings, maps and
// sequences normalize their elements, and any other composite value falls
// back to its display string.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		return string(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, val := range t {
			out[key] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	}

	// Generic maps and slices (e.g. map[string]string, []string) normalize
	// element-wise via reflection.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprintf("%v", iter.Key().Interface())] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}

	return fmt.Sprintf("%v", v)
}

// displayString renders a normalized value for inclusion in text payloads.
func displayString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// evaluate resolves every deferred item and normalizes the results, in
// section-then-item order. This is the only place producer side effects occur
// during a render.
func evaluate(raw *orderedMap[Item]) *Sections {
	out := NewSections()
	for _, name := range raw.keys {
		items := raw.vals[name]
		evaluated := make([]any, 0, len(items))
		for _, item := range items {
			evaluated = append(evaluated, normalize(item.resolve()))
		}
		out.Set(name, evaluated)
	}
	return out
}
