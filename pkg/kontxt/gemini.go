package kontxt

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiPayload is the provider-specific render output, typed against the
// google.golang.org/genai SDK. Invariant: system and instruction text never
// appears inside Contents.
type GeminiPayload struct {
	// SystemInstruction merges the "system" and "instructions" sections, in
	// that order, joined by blank lines. System-role message items are
	// diverted here as well.
	SystemInstruction *genai.Content

	// Contents is the conversation derived from the "messages" section, with
	// assistant roles remapped to model. Sections other than system,
	// instructions, tools, and messages are appended as user-role entries
	// prefixed by their section name in brackets.
	Contents []*genai.Content

	// Tools carries the "tools" section verbatim.
	Tools []any

	// GenerationConfig is the caller's generation configuration, passed
	// through untouched.
	GenerationConfig *genai.GenerateContentConfig
}

// RenderGemini converts the evaluated section map into the Gemini wire shape.
func RenderGemini(sections *Sections, config *genai.GenerateContentConfig) *GeminiPayload {
	var systemParts []string
	var instructionParts []string
	payload := &GeminiPayload{GenerationConfig: config}

	for _, name := range sections.Names() {
		items, _ := sections.Get(name)
		switch name {
		case "system":
			for _, item := range items {
				systemParts = append(systemParts, displayString(item))
			}
		case "instructions":
			for _, item := range items {
				instructionParts = append(instructionParts, displayString(item))
			}
		case "tools":
			payload.Tools = append(payload.Tools, items...)
		case "messages":
			for _, item := range items {
				role, content, ok := asMessage(item)
				if !ok {
					payload.Contents = append(payload.Contents, textContent(string(genai.RoleUser), displayString(item)))
					continue
				}
				switch role {
				case "assistant":
					role = string(genai.RoleModel)
				case "system":
					// System-role messages belong in the system instruction,
					// never in the conversation.
					systemParts = append(systemParts, displayString(content))
					continue
				}
				payload.Contents = append(payload.Contents, textContent(role, displayString(content)))
			}
		default:
			payload.Contents = append(payload.Contents,
				textContent(string(genai.RoleUser), fmt.Sprintf("[%s]\n%s", name, stringifyItems(items))))
		}
	}

	allSystemParts := append(systemParts, instructionParts...)
	if len(allSystemParts) > 0 {
		payload.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(strings.Join(allSystemParts, "\n\n"))},
		}
	}
	return payload
}

func textContent(role string, text string) *genai.Content {
	return &genai.Content{
		Role:  role,
		Parts: []*genai.Part{genai.NewPartFromText(text)},
	}
}
