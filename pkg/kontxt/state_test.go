package kontxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_PhaseDefaults(t *testing.T) {
	t.Run("empty state has no phase", func(t *testing.T) {
		state := NewState(nil)
		_, ok := state.Phase()
		assert.False(t, ok)
	})

	t.Run("default phase path", func(t *testing.T) {
		state := NewState(map[string]any{"session": map[string]any{"phase": "intake"}})
		phase, ok := state.Phase()
		require.True(t, ok)
		assert.Equal(t, "intake", phase)
	})

	t.Run("custom phase path", func(t *testing.T) {
		state := NewState(
			map[string]any{"workflow": map[string]any{"stage": "draft"}},
			WithPhasePath("workflow", "stage"),
		)
		phase, ok := state.Phase()
		require.True(t, ok)
		assert.Equal(t, "draft", phase)
	})

	t.Run("non-string phase value reads as unset", func(t *testing.T) {
		state := NewState(map[string]any{"session": map[string]any{"phase": 7}})
		_, ok := state.Phase()
		assert.False(t, ok)
	})
}

func TestState_SetPhase(t *testing.T) {
	t.Run("creates intermediate nodes", func(t *testing.T) {
		state := NewState(nil)
		require.NoError(t, state.SetPhase("intake"))

		phase, ok := state.Phase()
		require.True(t, ok)
		assert.Equal(t, "intake", phase)
	})

	t.Run("enumeration rejects unknown names", func(t *testing.T) {
		state := NewState(nil, WithPhases("a", "b"))
		err := state.SetPhase("c")
		require.ErrorIs(t, err, ErrInvalidPhase)
		assert.Contains(t, err.Error(), `"c"`)
	})

	t.Run("transition graph rejects unlisted targets", func(t *testing.T) {
		state := NewState(
			map[string]any{"session": map[string]any{"phase": "a"}},
			WithTransitions(map[string][]string{"a": {"b"}}),
		)
		err := state.SetPhase("c")
		require.ErrorIs(t, err, ErrInvalidPhaseTransition)
		assert.Contains(t, err.Error(), "[b]")

		require.NoError(t, state.SetPhase("b"))
	})

	t.Run("phases without graph entries transition freely", func(t *testing.T) {
		state := NewState(
			map[string]any{"session": map[string]any{"phase": "a"}},
			WithTransitions(map[string][]string{"other": {"x"}}),
		)
		assert.NoError(t, state.SetPhase("anywhere"))
	})
}

func TestState_Paths(t *testing.T) {
	state := NewState(nil)

	require.NoError(t, state.SetPath([]string{"user", "name"}, "ada"))
	value, ok := state.GetPath("user", "name")
	require.True(t, ok)
	assert.Equal(t, "ada", value)

	_, ok = state.GetPath("user", "missing")
	assert.False(t, ok)

	assert.Error(t, state.SetPath(nil, "x"))
}

func TestState_DataIsDeepCopied(t *testing.T) {
	initial := map[string]any{"session": map[string]any{"phase": "a"}}
	state := NewState(initial)

	// Mutating the caller's map must not affect the state.
	initial["session"].(map[string]any)["phase"] = "mutated"
	phase, _ := state.Phase()
	assert.Equal(t, "a", phase)

	// Mutating a snapshot must not affect the state either.
	snapshot := state.Data()
	snapshot["session"].(map[string]any)["phase"] = "mutated"
	phase, _ = state.Phase()
	assert.Equal(t, "a", phase)
}

func TestState_ConfigureTransitions(t *testing.T) {
	state := NewState(map[string]any{"session": map[string]any{"phase": "a"}})
	require.NoError(t, state.SetPhase("b"))

	state.ConfigureTransitions(map[string][]string{"b": {"c"}})
	assert.Error(t, state.SetPhase("a"))
	assert.NoError(t, state.SetPhase("c"))
}
