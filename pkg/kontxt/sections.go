package kontxt

// orderedMap is a string-keyed map of item lists that preserves key insertion
// order. Go maps iterate in random order; section order is significant for
// rendering and for budget trimming, so both the raw store and the evaluated
// map are built on this type.
type orderedMap[V any] struct {
	keys []string
	vals map[string][]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{vals: make(map[string][]V)}
}

func (m *orderedMap[V]) get(key string) ([]V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *orderedMap[V]) has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// set overwrites the list for key, registering the key on first use.
func (m *orderedMap[V]) set(key string, items []V) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = items
}

// appendItems appends to the list for key, creating it if absent.
func (m *orderedMap[V]) appendItems(key string, items ...V) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = append(m.vals[key], items...)
}

func (m *orderedMap[V]) delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *orderedMap[V]) clear() {
	m.keys = nil
	m.vals = make(map[string][]V)
}

func (m *orderedMap[V]) len() int {
	return len(m.keys)
}

// Sections is an insertion-ordered map of section name to fully evaluated
// items. By the time a Sections value reaches a renderer every item is a
// plain value; deferred producers have already been resolved.
type Sections struct {
	m *orderedMap[any]
}

// NewSections returns an empty evaluated section map.
func NewSections() *Sections {
	return &Sections{m: newOrderedMap[any]()}
}

// Names returns the section names in insertion order.
func (s *Sections) Names() []string {
	names := make([]string, len(s.m.keys))
	copy(names, s.m.keys)
	return names
}

// Get returns the evaluated items for a section.
func (s *Sections) Get(name string) ([]any, bool) {
	return s.m.get(name)
}

// Set overwrites the items for a section, registering it on first use.
func (s *Sections) Set(name string, items []any) {
	s.m.set(name, items)
}

// Append appends evaluated items to a section, creating it if absent.
func (s *Sections) Append(name string, items ...any) {
	s.m.appendItems(name, items...)
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	return s.m.len()
}
