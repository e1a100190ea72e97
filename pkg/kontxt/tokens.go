package kontxt

import (
	"fmt"
	"strings"
)

// TokenCounter converts text into an integer token estimate. Implementations
// must be monotone enough that concatenating items does not decrease the
// estimate.
type TokenCounter interface {
	Count(text string) int
}

// Estimate returns the token estimate for an arbitrary evaluated value.
// Strings are counted directly, byte slices are decoded, sequences sum their
// elements, and everything else is counted via its display form.
func Estimate(c TokenCounter, v any) int {
	switch t := v.(type) {
	case string:
		return c.Count(t)
	case []byte:
		return c.Count(string(t))
	case []any:
		total := 0
		for _, item := range t {
			total += Estimate(c, item)
		}
		return total
	default:
		return c.Count(fmt.Sprintf("%v", v))
	}
}

// HeuristicTokenCounter is a fast, model-agnostic estimator based on average
// characters per token. It slightly overestimates on purpose to give
// conservative budget checks.
type HeuristicTokenCounter struct {
	// CharsPerToken is the calibration factor. Zero means the default of 4,
	// the approximate ratio for current frontier tokenizers.
	CharsPerToken int
}

// NewHeuristicTokenCounter creates a counter with default calibration.
func NewHeuristicTokenCounter() *HeuristicTokenCounter {
	return &HeuristicTokenCounter{CharsPerToken: 4}
}

// Count estimates tokens in a string.
func (c *HeuristicTokenCounter) Count(text string) int {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0
	}
	per := c.CharsPerToken
	if per <= 0 {
		per = 4
	}
	approx := len(cleaned) / per
	if approx < 1 {
		return 1
	}
	return approx
}
