// Package kontxt assembles named sections of heterogeneous content into a
// single LLM prompt payload, tracks the phase of a multi-step workflow,
// enforces a token budget, and serializes into provider wire formats.
package kontxt

// Format selects the wire shape produced by Context.Render.
type Format string

const (
	// FormatText wraps each section in <kontxt:name> markers.
	FormatText Format = "text"

	// FormatOpenAI emits a flat chat-completions message list.
	FormatOpenAI Format = "openai"

	// FormatAnthropic separates a top-level system string from a message list.
	FormatAnthropic Format = "anthropic"

	// FormatGemini emits a payload typed against the google.golang.org/genai SDK.
	FormatGemini Format = "gemini"
)

// String returns the wire identifier for the format.
func (f Format) String() string {
	return string(f)
}

// Item is a single entry in a section: either a literal value or a deferred
// zero-argument producer. Producers are resolved exactly once per render, in
// section-then-item order, and never cached across renders.
type Item struct {
	value    any
	producer func() any
}

// Lit wraps a literal value as an Item.
func Lit(v any) Item {
	return Item{value: v}
}

// Deferred wraps a zero-argument producer as an Item.
func Deferred(fn func() any) Item {
	return Item{producer: fn}
}

// IsDeferred reports whether the item holds a producer.
func (it Item) IsDeferred() bool {
	return it.producer != nil
}

// Value returns the literal value, or nil for deferred items.
func (it Item) Value() any {
	return it.value
}

// resolve evaluates the item. This is the single point where producer side
// effects occur.
func (it Item) resolve() any {
	if it.producer != nil {
		return it.producer()
	}
	return it.value
}

// wrapItem converts an arbitrary value into an Item. Items pass through,
// func() any values become deferred producers, everything else is literal.
func wrapItem(v any) Item {
	switch t := v.(type) {
	case Item:
		return t
	case func() any:
		return Deferred(t)
	default:
		return Lit(v)
	}
}

// wrapItems converts a slice of arbitrary values, flattening one level of
// []any or []Item so callers can pass prepared item lists directly.
func wrapItems(content []any) []Item {
	var items []Item
	for _, v := range content {
		switch t := v.(type) {
		case []Item:
			items = append(items, t...)
		case []any:
			for _, inner := range t {
				items = append(items, wrapItem(inner))
			}
		default:
			items = append(items, wrapItem(v))
		}
	}
	return items
}
