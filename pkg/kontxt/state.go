package kontxt

import (
	"fmt"
	"sort"
)

// State is a lightweight wrapper around a mutable state map that holds the
// current phase name. It may carry its own phase enumeration and transition
// graph, which are validated independently of any PhaseConfig transition
// rules: both gates must permit a transition. A State is created once per
// session and mutated only by successful SetPhase calls.
type State struct {
	data        map[string]any
	phasePath   []string
	phases      map[string]struct{}
	transitions map[string]map[string]struct{}
}

// StateOption configures a State at construction.
type StateOption func(*State)

// WithPhasePath overrides where the phase name lives in the state map.
// The default is ["session", "phase"].
func WithPhasePath(path ...string) StateOption {
	return func(s *State) {
		s.phasePath = append([]string(nil), path...)
	}
}

// WithPhases restricts the legal phase names. SetPhase rejects any value
// outside the enumeration.
func WithPhases(phases ...string) StateOption {
	return func(s *State) {
		s.phases = make(map[string]struct{}, len(phases))
		for _, p := range phases {
			s.phases[p] = struct{}{}
		}
	}
}

// WithTransitions installs the State's own transition graph, checked
// independently of phase configurations.
func WithTransitions(transitions map[string][]string) StateOption {
	return func(s *State) {
		s.setTransitions(transitions)
	}
}

// NewState creates a State seeded with a deep copy of initial.
func NewState(initial map[string]any, opts ...StateOption) *State {
	s := &State{
		data:      deepCopyMap(initial),
		phasePath: []string{"session", "phase"},
	}
	if s.data == nil {
		s.data = make(map[string]any)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Data returns a deep copy of the underlying map.
func (s *State) Data() map[string]any {
	return deepCopyMap(s.data)
}

// GetPath retrieves a value by key path.
func (s *State) GetPath(path ...string) (any, bool) {
	var current any = s.data
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetPath assigns a value at the given path, creating nodes as needed.
func (s *State) SetPath(path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("path must contain at least one key")
	}
	current := s.data
	for _, key := range path[:len(path)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
	return nil
}

// Phase returns the current phase name, if set.
func (s *State) Phase() (string, bool) {
	v, ok := s.GetPath(s.phasePath...)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	if !ok {
		return "", false
	}
	return name, true
}

// SetPhase updates the current phase, validating against the enumeration and
// the State's own transition graph.
func (s *State) SetPhase(phase string) error {
	if s.phases != nil {
		if _, ok := s.phases[phase]; !ok {
			return fmt.Errorf("%w: %q is not a legal phase name", ErrInvalidPhase, phase)
		}
	}
	if current, ok := s.Phase(); ok {
		if allowed, ok := s.transitions[current]; ok && len(allowed) > 0 {
			if _, ok := allowed[phase]; !ok {
				return fmt.Errorf("%w: cannot transition from %q to %q, allowed: %v",
					ErrInvalidPhaseTransition, current, phase, sortedKeys(allowed))
			}
		}
	}
	return s.SetPath(s.phasePath, phase)
}

// ConfigureTransitions replaces the State's transition graph.
func (s *State) ConfigureTransitions(transitions map[string][]string) {
	s.setTransitions(transitions)
}

func (s *State) setTransitions(transitions map[string][]string) {
	s.transitions = make(map[string]map[string]struct{}, len(transitions))
	for phase, targets := range transitions {
		set := make(map[string]struct{}, len(targets))
		for _, t := range targets {
			set[t] = struct{}{}
		}
		s.transitions[phase] = set
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// deepCopyMap copies nested map[string]any and []any structures. Other values
// are shared; callers storing mutable custom types own their aliasing.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
