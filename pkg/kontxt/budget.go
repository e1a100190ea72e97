package kontxt

import (
	"fmt"
	"sort"

	"kontxt/internal/logging"
)

// BudgetConfig describes a global context budget.
type BudgetConfig struct {
	// MaxTokens is the token ceiling. Zero disables enforcement.
	MaxTokens int

	// Priority orders section names from most to least preserved. Sections
	// absent from the list are treated as lowest priority and trimmed first.
	Priority []string

	// Strict converts "still over budget after trimming" into a hard failure
	// instead of a best-effort result.
	Strict bool
}

// BudgetManager applies token budgets across evaluated sections.
type BudgetManager struct {
	counter TokenCounter
}

// NewBudgetManager creates a manager that estimates with the given counter.
func NewBudgetManager(counter TokenCounter) *BudgetManager {
	return &BudgetManager{counter: counter}
}

// Enforce trims sections until the total estimate fits within maxTokens.
// Sections appearing earlier in priority are preserved preferentially; within
// a section, items are popped from the tail. Note that conversational
// sections conventionally append new messages at the tail, so once a section
// is selected for trimming its most recent items are removed first. A
// maxTokens of zero (or below) disables enforcement and returns the input
// unchanged.
func (m *BudgetManager) Enforce(sections *Sections, maxTokens int, priority []string) (*Sections, error) {
	if maxTokens <= 0 {
		return sections, nil
	}

	trimmed := NewSections()
	for _, name := range sections.Names() {
		items, _ := sections.Get(name)
		copied := make([]any, len(items))
		copy(copied, items)
		trimmed.Set(name, copied)
	}

	total := m.Total(trimmed)
	if total <= maxTokens {
		return trimmed, nil
	}

	// Trim order: sort by ascending priority rank (stable, so unlisted
	// sections keep their insertion order at the end), then iterate in
	// reverse so the least prioritized section is emptied first.
	ordering := trimmed.Names()
	rank := func(name string) int {
		for i, p := range priority {
			if p == name {
				return i
			}
		}
		return len(priority)
	}
	sort.SliceStable(ordering, func(i, j int) bool {
		return rank(ordering[i]) < rank(ordering[j])
	})

	log := logging.Get(logging.CategoryBudget)
	for i := len(ordering) - 1; i >= 0; i-- {
		name := ordering[i]
		items, _ := trimmed.Get(name)
		for len(items) > 0 && total > maxTokens {
			items = items[:len(items)-1]
			trimmed.Set(name, items)
			total = m.Total(trimmed)
		}
		if len(items) < lenOf(sections, name) {
			log.Debugf("trimmed section %q to %d items (total %d/%d tokens)",
				name, len(items), total, maxTokens)
		}
		if total <= maxTokens {
			return trimmed, nil
		}
	}

	return nil, fmt.Errorf("%w: unable to fit %d estimated tokens within %d",
		ErrBudgetExceeded, total, maxTokens)
}

// EnforceSection trims a single item list to fit its own ceiling, popping
// from the tail. Used for per-section budgets before global enforcement.
func (m *BudgetManager) EnforceSection(items []any, maxTokens int) []any {
	if maxTokens <= 0 {
		return items
	}
	trimmed := make([]any, len(items))
	copy(trimmed, items)
	for len(trimmed) > 0 && Estimate(m.counter, trimmed) > maxTokens {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return trimmed
}

// Total returns the summed token estimate across all sections.
func (m *BudgetManager) Total(sections *Sections) int {
	total := 0
	for _, name := range sections.Names() {
		items, _ := sections.Get(name)
		total += Estimate(m.counter, items)
	}
	return total
}

func lenOf(sections *Sections, name string) int {
	items, _ := sections.Get(name)
	return len(items)
}
