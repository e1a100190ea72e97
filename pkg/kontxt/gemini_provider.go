package kontxt

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"kontxt/internal/logging"
)

// GeminiProvider adapts a genai client to the Provider seam. It consumes
// FormatGemini payloads produced by the render pipeline.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider wraps an existing genai client.
func NewGeminiProvider(client *genai.Client, model string) (*GeminiProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("genai client is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Format returns FormatGemini.
func (p *GeminiProvider) Format() Format {
	return FormatGemini
}

// Generate sends the payload to the Gemini API and returns the reply.
func (p *GeminiProvider) Generate(ctx context.Context, payload any) (*Response, error) {
	gp, ok := payload.(*GeminiPayload)
	if !ok {
		return nil, fmt.Errorf("expected *GeminiPayload, got %T", payload)
	}

	config := gp.GenerationConfig
	if config == nil {
		config = &genai.GenerateContentConfig{}
	}
	config.SystemInstruction = gp.SystemInstruction

	log := logging.Get(logging.CategorySession)
	for _, tool := range gp.Tools {
		if t, ok := tool.(*genai.Tool); ok {
			config.Tools = append(config.Tools, t)
		} else {
			log.Warnf("skipping tool descriptor of type %T; Gemini requires *genai.Tool", tool)
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, gp.Contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	return &Response{Text: result.Text(), Raw: result}, nil
}
