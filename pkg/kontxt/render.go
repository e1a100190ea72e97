package kontxt

import (
	"fmt"
	"strings"
)

// ChatMessage is a single {role, content} entry in a chat-shaped payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// AnthropicPayload separates a top-level system string from the message list,
// matching the Anthropic Messages API shape.
type AnthropicPayload struct {
	System   string        `json:"system,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// RenderText emits each section wrapped in <kontxt:name> markers, with each
// item's display form on its own line, in section-then-item order.
func RenderText(sections *Sections) string {
	var parts []string
	for _, name := range sections.Names() {
		items, _ := sections.Get(name)
		parts = append(parts, fmt.Sprintf("<kontxt:%s>", name))
		for _, item := range items {
			parts = append(parts, displayString(item))
		}
		parts = append(parts, fmt.Sprintf("</kontxt:%s>", name))
	}
	return strings.Join(parts, "\n")
}

// RenderOpenAI emits a flat ordered message list. Well-formed {role, content}
// items in the "messages" section pass through; every other section, and any
// malformed message item, becomes a single system-role entry with the content
// prefixed by the section name in brackets.
func RenderOpenAI(sections *Sections) []ChatMessage {
	messages := []ChatMessage{}
	for _, name := range sections.Names() {
		items, _ := sections.Get(name)
		if name == "messages" {
			for _, item := range items {
				if role, content, ok := asMessage(item); ok {
					messages = append(messages, ChatMessage{Role: role, Content: content})
				} else {
					messages = append(messages, ChatMessage{Role: "system", Content: displayString(item)})
				}
			}
			continue
		}
		messages = append(messages, ChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("[%s]\n%s", name, stringifyItems(items)),
		})
	}
	return messages
}

// RenderAnthropic concatenates the "system" section into a top-level system
// string and flattens everything else into the message list. Non-"messages"
// sections become assistant-role entries prefixed by the section name in
// brackets; malformed message items fall back to the user role.
func RenderAnthropic(sections *Sections) *AnthropicPayload {
	var systemParts []string
	messages := []ChatMessage{}
	for _, name := range sections.Names() {
		items, _ := sections.Get(name)
		switch name {
		case "system":
			for _, item := range items {
				systemParts = append(systemParts, displayString(item))
			}
		case "messages":
			for _, item := range items {
				if role, content, ok := asMessage(item); ok {
					messages = append(messages, ChatMessage{Role: role, Content: content})
				} else {
					messages = append(messages, ChatMessage{Role: "user", Content: displayString(item)})
				}
			}
		default:
			messages = append(messages, ChatMessage{
				Role:    "assistant",
				Content: fmt.Sprintf("[%s]\n%s", name, stringifyItems(items)),
			})
		}
	}
	return &AnthropicPayload{
		System:   strings.Join(systemParts, "\n"),
		Messages: messages,
	}
}

// asMessage reports whether an evaluated item is a well-formed {role,
// content} map.
func asMessage(item any) (role string, content any, ok bool) {
	m, isMap := item.(map[string]any)
	if !isMap {
		return "", nil, false
	}
	roleValue, hasRole := m["role"]
	content, hasContent := m["content"]
	if !hasRole || !hasContent {
		return "", nil, false
	}
	role, isString := roleValue.(string)
	if !isString {
		return "", nil, false
	}
	return role, content, true
}

func stringifyItems(items []any) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, displayString(item))
	}
	return strings.Join(lines, "\n")
}
