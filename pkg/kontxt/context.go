package kontxt

import (
	"fmt"

	"kontxt/internal/logging"

	"google.golang.org/genai"
)

// Context owns the section store, phase registry, and budget configuration,
// and drives the render pipeline: phase selection, evaluation, budget
// enforcement, and formatting. A Context is not safe for concurrent mutation;
// callers sharing one across goroutines must serialize writes themselves.
type Context struct {
	sections       *orderedMap[Item]
	phases         map[string]*PhaseConfig
	budget         *BudgetConfig
	sectionBudgets map[string]int
	counter        TokenCounter
	memory         *Memory
	state          *State
}

// ContextOption configures a Context at construction.
type ContextOption func(*Context)

// WithTokenCounter overrides the default heuristic token counter.
func WithTokenCounter(c TokenCounter) ContextOption {
	return func(ctx *Context) { ctx.counter = c }
}

// WithMemory attaches a default Memory for phase memory includes.
func WithMemory(m *Memory) ContextOption {
	return func(ctx *Context) { ctx.memory = m }
}

// WithState attaches the State that holds the current phase name.
func WithState(s *State) ContextOption {
	return func(ctx *Context) { ctx.state = s }
}

// NewContext creates an empty Context.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		sections:       newOrderedMap[Item](),
		phases:         make(map[string]*PhaseConfig),
		sectionBudgets: make(map[string]int),
		counter:        NewHeuristicTokenCounter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the attached State, if any.
func (c *Context) State() *State {
	return c.state
}

// Add appends content to a section, creating it if absent. Values of type
// func() any become deferred items; one level of []any or []Item flattens.
func (c *Context) Add(name string, content ...any) *Context {
	c.sections.appendItems(name, wrapItems(content)...)
	return c
}

// Replace overwrites a section's items, creating the section if absent.
func (c *Context) Replace(name string, content ...any) *Context {
	c.sections.set(name, wrapItems(content))
	return c
}

// GetSection returns the raw item list for a section.
func (c *Context) GetSection(name string) ([]Item, bool) {
	items, ok := c.sections.get(name)
	if !ok {
		return nil, false
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out, true
}

// Remove deletes a section and any per-section budget for it.
func (c *Context) Remove(name string) *Context {
	c.sections.delete(name)
	delete(c.sectionBudgets, name)
	return c
}

// Clear removes all sections and per-section budgets.
func (c *Context) Clear() *Context {
	c.sections.clear()
	c.sectionBudgets = make(map[string]int)
	return c
}

// AddMessage appends a {role, content} entry to the "messages" section.
func (c *Context) AddMessage(role, content string) *Context {
	return c.Add("messages", map[string]any{"role": role, "content": content})
}

// AddUserMessage appends a user message to the conversation.
func (c *Context) AddUserMessage(content string) *Context {
	return c.AddMessage("user", content)
}

// AddResponse appends an assistant reply to the conversation.
func (c *Context) AddResponse(text string) *Context {
	return c.AddMessage("assistant", text)
}

// SectionHandle configures section-level options.
type SectionHandle struct {
	context *Context
	name    string
}

// Section returns a handle for an existing section.
func (c *Context) Section(name string) (*SectionHandle, error) {
	if !c.sections.has(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return &SectionHandle{context: c, name: name}, nil
}

// SetBudget caps the section's own token estimate. The cap is applied by
// trimming the section's tail before global budget enforcement.
func (h *SectionHandle) SetBudget(maxTokens int) *SectionHandle {
	h.context.sectionBudgets[h.name] = maxTokens
	return h
}

// SetBudget installs the global budget configuration.
func (c *Context) SetBudget(cfg BudgetConfig) *Context {
	c.budget = &cfg
	return c
}

// Phase returns a builder for the named phase, creating the configuration on
// first reference.
func (c *Context) Phase(name string) *PhaseBuilder {
	config, ok := c.phases[name]
	if !ok {
		config = newPhaseConfig(name)
		c.phases[name] = config
	}
	return &PhaseBuilder{config: config}
}

// AdvancePhase transitions the attached State to nextPhase. The current
// phase's transition set and the State's own validation are independent
// gates; both must permit the transition.
func (c *Context) AdvancePhase(nextPhase string) error {
	if c.state == nil {
		return fmt.Errorf("cannot advance phase: no State attached to Context")
	}

	current, ok := c.state.Phase()
	if !ok {
		return fmt.Errorf("%w: cannot advance, current phase is unset", ErrInvalidPhase)
	}

	config, ok := c.phases[current]
	if !ok {
		return fmt.Errorf("%w: current phase %q is not configured; call Phase(%q) first",
			ErrInvalidPhase, current, current)
	}

	if !config.allowsTransition(nextPhase) {
		return fmt.Errorf("%w: cannot transition from %q to %q, allowed transitions: %v",
			ErrInvalidPhaseTransition, current, nextPhase, config.transitionsTo)
	}

	if err := c.state.SetPhase(nextPhase); err != nil {
		return err
	}
	logging.Get(logging.CategoryPhase).Debugf("advanced phase %s -> %s", current, nextPhase)
	return nil
}

// RenderOptions parameterizes a single render call.
type RenderOptions struct {
	// Phase selects the active section subset. Empty falls back to the
	// attached State's current phase; with no State, all raw sections render.
	Phase string

	// Format selects the wire shape. Empty means FormatText.
	Format Format

	// MaxTokens overrides the globally configured budget ceiling.
	MaxTokens int

	// Memory overrides the Context's default Memory for this render.
	Memory *Memory

	// GenerationConfig passes through verbatim into the Gemini payload.
	GenerationConfig *genai.GenerateContentConfig
}

// Render assembles the active sections, evaluates deferred items, enforces
// the token budget, and serializes into the requested format. The result is
// a string for FormatText, []ChatMessage for FormatOpenAI, *AnthropicPayload
// for FormatAnthropic, and *GeminiPayload for FormatGemini.
func (c *Context) Render(opts RenderOptions) (any, error) {
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	memory := opts.Memory
	if memory == nil {
		memory = c.memory
	}

	phase, err := c.resolvePhase(opts.Phase)
	if err != nil {
		return nil, err
	}

	selected, err := c.selectSections(phase, memory)
	if err != nil {
		return nil, err
	}

	evaluated := evaluate(selected)
	materialized, err := c.applyBudgets(evaluated, opts.MaxTokens)
	if err != nil {
		return nil, err
	}

	logging.Get(logging.CategoryRender).Debugf("rendering %d sections as %s",
		materialized.Len(), format)

	switch format {
	case FormatText:
		return RenderText(materialized), nil
	case FormatOpenAI:
		return RenderOpenAI(materialized), nil
	case FormatAnthropic:
		return RenderAnthropic(materialized), nil
	case FormatGemini:
		return RenderGemini(materialized, opts.GenerationConfig), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// TokenCount evaluates the active sections and returns the budget-free token
// estimate; no trimming is applied. With no phase argument the raw section
// store is counted.
func (c *Context) TokenCount(phase ...string) (int, error) {
	selectedPhase := ""
	if len(phase) > 0 {
		selectedPhase = phase[0]
	}
	selected, err := c.selectSections(selectedPhase, c.memory)
	if err != nil {
		return 0, err
	}
	evaluated := evaluate(selected)
	return NewBudgetManager(c.counter).Total(evaluated), nil
}

// resolvePhase applies the State fallback: an explicit phase wins; otherwise
// the State's current phase is used and must be configured.
func (c *Context) resolvePhase(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if c.state == nil {
		return "", nil
	}
	current, ok := c.state.Phase()
	if !ok {
		return "", nil
	}
	if _, configured := c.phases[current]; !configured {
		return "", fmt.Errorf("%w: state phase %q has no configuration; call Phase(%q) before rendering",
			ErrInvalidPhase, current, current)
	}
	return current, nil
}

// selectSections builds the active section map for a phase. With an empty
// phase name the entire raw store is active.
func (c *Context) selectSections(phase string, memory *Memory) (*orderedMap[Item], error) {
	if phase == "" {
		out := newOrderedMap[Item]()
		for _, name := range c.sections.keys {
			items := c.sections.vals[name]
			copied := make([]Item, len(items))
			copy(copied, items)
			out.set(name, copied)
		}
		return out, nil
	}

	config, ok := c.phases[phase]
	if !ok {
		return nil, fmt.Errorf("%w: phase %q is not configured", ErrInvalidPhase, phase)
	}

	out := newOrderedMap[Item]()

	// Phase system text shadows any raw section of the same name.
	if config.system != nil {
		out.set("system", []Item{Lit(*config.system)})
	}

	if config.instructions != nil {
		switch instr := config.instructions.(type) {
		case func() any:
			out.set("instructions", []Item{Lit(instr())})
		default:
			out.set("instructions", []Item{Lit(instr)})
		}
	}

	for _, name := range config.includes {
		items, exists := c.sections.get(name)
		if !exists {
			continue
		}
		if name == "messages" && config.maxHistory > 0 && len(items) > config.maxHistory {
			// Display window only; the raw store keeps the full history.
			items = items[len(items)-config.maxHistory:]
		}
		copied := make([]Item, len(items))
		copy(copied, items)
		out.set(name, copied)
	}

	if memory != nil {
		for _, key := range config.memoryIncludes {
			if value, ok := memory.Scratchpad().Read(key); ok {
				out.set(key, []Item{Lit(value)})
			}
		}
	}

	if len(config.tools) > 0 {
		tools := make([]Item, 0, len(config.tools))
		for _, tool := range config.tools {
			tools = append(tools, Lit(tool))
		}
		out.set("tools", tools)
	}

	return out, nil
}

// applyBudgets runs per-section caps, then the global ceiling, then the
// strict re-check.
func (c *Context) applyBudgets(evaluated *Sections, maxTokens int) (*Sections, error) {
	manager := NewBudgetManager(c.counter)

	if len(c.sectionBudgets) > 0 {
		for _, name := range evaluated.Names() {
			ceiling, ok := c.sectionBudgets[name]
			if !ok {
				continue
			}
			items, _ := evaluated.Get(name)
			evaluated.Set(name, manager.EnforceSection(items, ceiling))
		}
	}

	limit := maxTokens
	var priority []string
	strict := false
	if c.budget != nil {
		if limit == 0 {
			limit = c.budget.MaxTokens
		}
		priority = c.budget.Priority
		strict = c.budget.Strict
	}

	materialized, err := manager.Enforce(evaluated, limit, priority)
	if err != nil {
		return nil, err
	}

	// Defensive re-check; the trim loop above is expected to make this
	// unreachable.
	if limit > 0 && strict {
		if total := manager.Total(materialized); total > limit {
			return nil, fmt.Errorf("%w: strict budget of %d tokens exceeded (estimated %d)",
				ErrBudgetExceeded, limit, total)
		}
	}
	return materialized, nil
}
