package kontxt

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts tokens exactly using the BPE encoding for a specific
// model. Prefer HeuristicTokenCounter when an approximation is acceptable;
// constructing this counter loads the encoding tables for the model.
type TiktokenCounter struct {
	model    string
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter targeting the given model, e.g.
// "gpt-4o".
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding for model %s: %w", model, err)
	}
	return &TiktokenCounter{model: model, encoding: encoding}, nil
}

// Model returns the model this counter targets.
func (c *TiktokenCounter) Model() string {
	return c.model
}

// Count returns the exact token count for text under the model's encoding.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}
