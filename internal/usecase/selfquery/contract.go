package selfquery

import "context"

// Generator produces text for a filter extraction prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
