package ai

import "context"

// TextGenerator is one generative-text provider candidate. Implementations
// return *ProviderError for provider-side failures so callers can classify.
type TextGenerator interface {
	// ProviderID identifies the candidate, e.g. "groq/llama-3.1-8b-instant".
	ProviderID() string

	// GenerateText sends the prompt and returns the raw assistant content.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// TextEmbedder converts text into a fixed-length numeric vector.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}
