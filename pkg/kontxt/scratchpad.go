package kontxt

import "sort"

// Scratchpad is an ephemeral key-value store scoped to a session. Phase
// configurations pull scratchpad values into the active section map through
// their memory includes.
type Scratchpad struct {
	data map[string]any
}

// NewScratchpad creates an empty scratchpad.
func NewScratchpad() *Scratchpad {
	return &Scratchpad{data: make(map[string]any)}
}

// Write stores a value under key.
func (s *Scratchpad) Write(key string, value any) {
	s.data[key] = value
}

// Read returns the value for key, if present.
func (s *Scratchpad) Read(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Delete removes key from the scratchpad if it exists.
func (s *Scratchpad) Delete(key string) {
	delete(s.data, key)
}

// Clear removes all entries.
func (s *Scratchpad) Clear() {
	s.data = make(map[string]any)
}

// Len returns the number of entries.
func (s *Scratchpad) Len() int {
	return len(s.data)
}

// Keys returns the stored keys in sorted order.
func (s *Scratchpad) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Memory bundles the session-scoped stores a Context can pull from. It
// currently carries a scratchpad; longer-term backends plug in behind the
// same surface.
type Memory struct {
	scratchpad *Scratchpad
}

// NewMemory creates a Memory with an empty scratchpad.
func NewMemory() *Memory {
	return &Memory{scratchpad: NewScratchpad()}
}

// Scratchpad returns the session scratchpad.
func (m *Memory) Scratchpad() *Scratchpad {
	return m.scratchpad
}
