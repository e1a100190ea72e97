package kontxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func contentText(c *genai.Content) string {
	var out string
	for _, part := range c.Parts {
		out += part.Text
	}
	return out
}

func TestRenderGemini_SystemInstructionMerge(t *testing.T) {
	sections := sectionsFrom(
		"system", []any{"You are helpful."},
		"instructions", []any{"Answer briefly."},
	)

	payload := RenderGemini(sections, nil)
	require.NotNil(t, payload.SystemInstruction)
	assert.Equal(t, "You are helpful.\n\nAnswer briefly.", contentText(payload.SystemInstruction))

	// System and instruction text must never leak into the conversation.
	assert.Empty(t, payload.Contents)
}

func TestRenderGemini_RoleRemapping(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected string
	}{
		{"assistant becomes model", "assistant", "model"},
		{"user passes through", "user", "user"},
		{"model passes through", "model", "model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := sectionsFrom(
				"messages", []any{map[string]any{"role": tt.role, "content": "Hi"}},
			)
			payload := RenderGemini(sections, nil)
			require.Len(t, payload.Contents, 1)
			assert.Equal(t, tt.expected, payload.Contents[0].Role)
			assert.Equal(t, "Hi", contentText(payload.Contents[0]))
		})
	}
}

func TestRenderGemini_SystemRoleMessageDiverted(t *testing.T) {
	sections := sectionsFrom(
		"system", []any{"Base system."},
		"messages", []any{
			map[string]any{"role": "system", "content": "Mid-conversation directive."},
			map[string]any{"role": "user", "content": "Hi"},
		},
	)

	payload := RenderGemini(sections, nil)
	require.Len(t, payload.Contents, 1)
	assert.Equal(t, "user", payload.Contents[0].Role)

	require.NotNil(t, payload.SystemInstruction)
	merged := contentText(payload.SystemInstruction)
	assert.Contains(t, merged, "Base system.")
	assert.Contains(t, merged, "Mid-conversation directive.")
}

func TestRenderGemini_OtherSectionsBecomeUserEntries(t *testing.T) {
	sections := sectionsFrom("facts", []any{"one", "two"})

	payload := RenderGemini(sections, nil)
	require.Len(t, payload.Contents, 1)
	assert.Equal(t, "user", payload.Contents[0].Role)
	assert.Equal(t, "[facts]\none\ntwo", contentText(payload.Contents[0]))
}

func TestRenderGemini_ToolsAreTopLevel(t *testing.T) {
	tool := map[string]any{"name": "search"}
	sections := sectionsFrom(
		"tools", []any{tool},
		"messages", []any{map[string]any{"role": "user", "content": "Hi"}},
	)

	payload := RenderGemini(sections, nil)
	require.Len(t, payload.Tools, 1)
	assert.Equal(t, tool, payload.Tools[0])

	// Tools never appear in the conversation.
	require.Len(t, payload.Contents, 1)
	assert.Equal(t, "Hi", contentText(payload.Contents[0]))
}

func TestRenderGemini_GenerationConfigPassthrough(t *testing.T) {
	config := &genai.GenerateContentConfig{}
	sections := sectionsFrom("messages", []any{map[string]any{"role": "user", "content": "Hi"}})

	payload := RenderGemini(sections, config)
	assert.Same(t, config, payload.GenerationConfig)
}

func TestRenderGemini_MalformedMessageBecomesUserEntry(t *testing.T) {
	sections := sectionsFrom("messages", []any{"loose text"})

	payload := RenderGemini(sections, nil)
	require.Len(t, payload.Contents, 1)
	assert.Equal(t, "user", payload.Contents[0].Role)
	assert.Equal(t, "loose text", contentText(payload.Contents[0]))
}

func TestRenderGemini_NoSystemMeansNilInstruction(t *testing.T) {
	sections := sectionsFrom("messages", []any{map[string]any{"role": "user", "content": "Hi"}})
	payload := RenderGemini(sections, nil)
	assert.Nil(t, payload.SystemInstruction)
}
