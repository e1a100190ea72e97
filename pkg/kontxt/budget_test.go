package kontxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionsFrom(pairs ...any) *Sections {
	// pairs alternate: name string, items []any
	s := NewSections()
	for i := 0; i < len(pairs); i += 2 {
		s.Set(pairs[i].(string), pairs[i+1].([]any))
	}
	return s
}

func TestBudgetManager_Enforce(t *testing.T) {
	manager := NewBudgetManager(NewHeuristicTokenCounter())

	t.Run("zero ceiling disables enforcement", func(t *testing.T) {
		sections := sectionsFrom("notes", []any{"hello world"})
		result, err := manager.Enforce(sections, 0, nil)
		require.NoError(t, err)
		assert.Same(t, sections, result)
	})

	t.Run("within ceiling returns everything", func(t *testing.T) {
		sections := sectionsFrom("notes", []any{"hello world"})
		result, err := manager.Enforce(sections, 1000, nil)
		require.NoError(t, err)
		items, _ := result.Get("notes")
		assert.Len(t, items, 1)
	})

	t.Run("unlisted sections trim before prioritized ones", func(t *testing.T) {
		sections := sectionsFrom(
			"keep", []any{"x"},
			"drop", []any{"y", "z"},
		)
		result, err := manager.Enforce(sections, 1, []string{"keep"})
		require.NoError(t, err)

		kept, _ := result.Get("keep")
		assert.Equal(t, []any{"x"}, kept)
		dropped, _ := result.Get("drop")
		assert.Empty(t, dropped)
	})

	t.Run("last appended item disappears first", func(t *testing.T) {
		sections := sectionsFrom("notes", []any{"aaaa", "bbbb", "cccc"})
		result, err := manager.Enforce(sections, 2, nil)
		require.NoError(t, err)

		items, _ := result.Get("notes")
		assert.Equal(t, []any{"aaaa", "bbbb"}, items)
	})

	t.Run("among unlisted sections the last inserted trims first", func(t *testing.T) {
		sections := sectionsFrom(
			"first", []any{"aaaa"},
			"second", []any{"bbbb"},
		)
		result, err := manager.Enforce(sections, 1, nil)
		require.NoError(t, err)

		firstItems, _ := result.Get("first")
		assert.Len(t, firstItems, 1)
		secondItems, _ := result.Get("second")
		assert.Empty(t, secondItems)
	})

	t.Run("input sections are not mutated", func(t *testing.T) {
		sections := sectionsFrom("notes", []any{"aaaa", "bbbb", "cccc"})
		_, err := manager.Enforce(sections, 1, nil)
		require.NoError(t, err)

		items, _ := sections.Get("notes")
		assert.Len(t, items, 3)
	})

	t.Run("priority order is respected across several sections", func(t *testing.T) {
		sections := sectionsFrom(
			"system", []any{"aaaa"},
			"messages", []any{"bbbb", "cccc"},
			"scratch", []any{"dddd", "eeee"},
		)
		// scratch is unlisted: emptied first; then messages; system survives.
		result, err := manager.Enforce(sections, 1, []string{"system", "messages"})
		require.NoError(t, err)

		scratch, _ := result.Get("scratch")
		assert.Empty(t, scratch)
		messages, _ := result.Get("messages")
		assert.Empty(t, messages)
		system, _ := result.Get("system")
		assert.Equal(t, []any{"aaaa"}, system)
	})
}

func TestBudgetManager_EnforceSection(t *testing.T) {
	manager := NewBudgetManager(NewHeuristicTokenCounter())

	t.Run("pops from the tail until within ceiling", func(t *testing.T) {
		items := []any{"aaaa", "bbbb", "cccc"}
		trimmed := manager.EnforceSection(items, 2)
		assert.Equal(t, []any{"aaaa", "bbbb"}, trimmed)
		assert.Len(t, items, 3)
	})

	t.Run("zero ceiling is a no-op", func(t *testing.T) {
		items := []any{"aaaa"}
		assert.Equal(t, items, manager.EnforceSection(items, 0))
	})
}

func TestBudgetManager_Total(t *testing.T) {
	manager := NewBudgetManager(NewHeuristicTokenCounter())
	sections := sectionsFrom(
		"a", []any{"aaaaaaaa"}, // 2 tokens
		"b", []any{"bbbb", "cccc"}, // 1 + 1
	)
	assert.Equal(t, 4, manager.Total(sections))
}

func TestContext_StrictBudget(t *testing.T) {
	// The strict re-check is defensive; after trimming it should pass.
	ctx := NewContext()
	ctx.Add("keep", "x")
	ctx.Add("drop", "y", "z")
	ctx.SetBudget(BudgetConfig{MaxTokens: 1, Priority: []string{"keep"}, Strict: true})

	payload, err := ctx.Render(RenderOptions{Format: FormatText})
	require.NoError(t, err)
	assert.Contains(t, payload.(string), "<kontxt:keep>")
}
