package kontxt

// DefaultMaxHistory is the window applied to the "messages" section when a
// phase does not override it.
const DefaultMaxHistory = 10

// PhaseConfig describes a named phase: which sections are active, what
// system/instruction text is synthesized, and which phases are reachable
// next. Configurations are created lazily on first reference through
// Context.Phase and mutated only through the builder.
type PhaseConfig struct {
	name           string
	system         *string
	instructions   any // string or func() any
	includes       []string
	memoryIncludes []string
	tools          []any
	maxHistory     int
	transitionsTo  []string // nil = unrestricted, empty = terminal
}

func newPhaseConfig(name string) *PhaseConfig {
	return &PhaseConfig{name: name, maxHistory: DefaultMaxHistory}
}

// Name returns the phase name.
func (p *PhaseConfig) Name() string {
	return p.name
}

// TransitionsTo returns the allowed next phases. Nil means unrestricted; an
// empty slice means the phase is terminal.
func (p *PhaseConfig) TransitionsTo() []string {
	if p.transitionsTo == nil {
		return nil
	}
	out := make([]string, len(p.transitionsTo))
	copy(out, p.transitionsTo)
	return out
}

func (p *PhaseConfig) allowsTransition(next string) bool {
	if p.transitionsTo == nil {
		return true
	}
	for _, allowed := range p.transitionsTo {
		if allowed == next {
			return true
		}
	}
	return false
}

// PhaseBuilder mutates a phase configuration. Each setter replaces only its
// own field; untouched fields retain prior values, so repeated configuration
// calls compose.
type PhaseBuilder struct {
	config *PhaseConfig
}

// Config returns the underlying configuration.
func (b *PhaseBuilder) Config() *PhaseConfig {
	return b.config
}

// System sets the synthesized "system" section text. At selection time this
// shadows any raw section of the same name.
func (b *PhaseBuilder) System(text string) *PhaseBuilder {
	b.config.system = &text
	return b
}

// Instructions sets the synthesized "instructions" section text.
func (b *PhaseBuilder) Instructions(text string) *PhaseBuilder {
	b.config.instructions = text
	return b
}

// InstructionsFunc sets a producer resolved at selection time, for
// instructions that depend on external state.
func (b *PhaseBuilder) InstructionsFunc(fn func() any) *PhaseBuilder {
	b.config.instructions = fn
	return b
}

// Includes sets the ordered list of raw section names the phase pulls in.
func (b *PhaseBuilder) Includes(names ...string) *PhaseBuilder {
	b.config.includes = append([]string(nil), names...)
	return b
}

// MemoryIncludes sets the scratchpad keys queried at selection time.
func (b *PhaseBuilder) MemoryIncludes(keys ...string) *PhaseBuilder {
	b.config.memoryIncludes = append([]string(nil), keys...)
	return b
}

// Tools sets the tool descriptors synthesized into a "tools" section.
func (b *PhaseBuilder) Tools(tools ...any) *PhaseBuilder {
	b.config.tools = append([]any(nil), tools...)
	return b
}

// MaxHistory sets the trailing window applied to the "messages" section.
// Zero disables the window.
func (b *PhaseBuilder) MaxHistory(n int) *PhaseBuilder {
	b.config.maxHistory = n
	return b
}

// TransitionsTo restricts which phases may follow this one.
func (b *PhaseBuilder) TransitionsTo(phases ...string) *PhaseBuilder {
	b.config.transitionsTo = append([]string{}, phases...)
	return b
}

// Terminal marks the phase as having no permitted transitions.
func (b *PhaseBuilder) Terminal() *PhaseBuilder {
	b.config.transitionsTo = []string{}
	return b
}
