package expand

import "context"

// Generator produces text for an expansion prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
