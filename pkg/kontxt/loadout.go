package kontxt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kontxt/internal/logging"
)

// Loadout is a declarative YAML description of sections, phases, and an
// optional budget. Sections are an ordered list because insertion order is
// significant; loadout items are literal values only.
type Loadout struct {
	Sections []LoadoutSection        `yaml:"sections"`
	Phases   map[string]LoadoutPhase `yaml:"phases"`
	Budget   *LoadoutBudget          `yaml:"budget"`
}

// LoadoutSection declares one named section and its items.
type LoadoutSection struct {
	Name  string `yaml:"name"`
	Items []any  `yaml:"items"`
}

// LoadoutPhase declares one phase configuration.
type LoadoutPhase struct {
	System         string   `yaml:"system"`
	Instructions   string   `yaml:"instructions"`
	Includes       []string `yaml:"includes"`
	MemoryIncludes []string `yaml:"memory_includes"`
	Tools          []any    `yaml:"tools"`
	MaxHistory     *int     `yaml:"max_history"`
	TransitionsTo  []string `yaml:"transitions_to"`
}

// LoadoutBudget declares the global budget.
type LoadoutBudget struct {
	MaxTokens int      `yaml:"max_tokens"`
	Priority  []string `yaml:"priority"`
	Strict    bool     `yaml:"strict"`
}

// LoadLoadout reads and parses a loadout file.
func LoadLoadout(path string) (*Loadout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read loadout file %s: %w", path, err)
	}
	loadout, err := ParseLoadout(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse loadout file %s: %w", path, err)
	}
	logging.Get(logging.CategoryLoadout).Infof("loaded %d sections and %d phases from %s",
		len(loadout.Sections), len(loadout.Phases), path)
	return loadout, nil
}

// ParseLoadout parses loadout YAML.
func ParseLoadout(data []byte) (*Loadout, error) {
	var loadout Loadout
	if err := yaml.Unmarshal(data, &loadout); err != nil {
		return nil, err
	}
	for i, section := range loadout.Sections {
		if section.Name == "" {
			return nil, fmt.Errorf("section %d is missing a name", i)
		}
	}
	return &loadout, nil
}

// Apply installs the loadout's sections, phases, and budget on a Context.
func (l *Loadout) Apply(c *Context) {
	for _, section := range l.Sections {
		c.Add(section.Name, section.Items...)
	}
	for name, phase := range l.Phases {
		builder := c.Phase(name)
		if phase.System != "" {
			builder.System(phase.System)
		}
		if phase.Instructions != "" {
			builder.Instructions(phase.Instructions)
		}
		if phase.Includes != nil {
			builder.Includes(phase.Includes...)
		}
		if phase.MemoryIncludes != nil {
			builder.MemoryIncludes(phase.MemoryIncludes...)
		}
		if phase.Tools != nil {
			builder.Tools(phase.Tools...)
		}
		if phase.MaxHistory != nil {
			builder.MaxHistory(*phase.MaxHistory)
		}
		if phase.TransitionsTo != nil {
			builder.TransitionsTo(phase.TransitionsTo...)
		}
	}
	if l.Budget != nil {
		c.SetBudget(BudgetConfig{
			MaxTokens: l.Budget.MaxTokens,
			Priority:  l.Budget.Priority,
			Strict:    l.Budget.Strict,
		})
	}
}
