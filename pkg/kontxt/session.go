package kontxt

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kontxt/internal/logging"
)

// Response is a provider reply.
type Response struct {
	// Text is the assistant's reply text.
	Text string

	// Raw is the provider's native response object.
	Raw any
}

// Provider is the narrow seam to an LLM wire client. The render pipeline
// never calls the network; providers do.
type Provider interface {
	// Format returns the render format this provider consumes.
	Format() Format

	// Generate sends a rendered payload and returns the reply.
	Generate(ctx context.Context, payload any) (*Response, error)
}

// ChatSession bridges a Context and a Provider for multi-turn conversations.
// Rendering stays the same synchronous pipeline as Context.Render; only the
// provider call awaits the network.
type ChatSession struct {
	id       string
	context  *Context
	provider Provider
}

// NewChatSession creates a session over an existing Context.
func NewChatSession(c *Context, p Provider) *ChatSession {
	return &ChatSession{
		id:       uuid.NewString(),
		context:  c,
		provider: p,
	}
}

// ID returns the session's correlation ID.
func (s *ChatSession) ID() string {
	return s.id
}

// Context returns the managed Context.
func (s *ChatSession) Context() *Context {
	return s.context
}

// Send appends the user message, renders the context in the provider's
// format, calls the provider, and appends the assistant reply.
func (s *ChatSession) Send(ctx context.Context, message string) (*Response, error) {
	s.context.AddUserMessage(message)

	payload, err := s.context.Render(RenderOptions{Format: s.provider.Format()})
	if err != nil {
		return nil, err
	}

	log := logging.Get(logging.CategorySession)
	log.Debugf("session %s sending %s payload", s.id, s.provider.Format())

	response, err := s.provider.Generate(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("provider call failed: %w", err)
	}

	if response.Text != "" {
		s.context.AddResponse(response.Text)
	}
	return response, nil
}
