package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CompleteParams tunes a single completion call.
type CompleteParams struct {
	// Temperature controls sampling randomness. 0 makes scoring deterministic.
	Temperature float64

	// MaxTokens caps the length of the completion.
	MaxTokens int
}

// Completer runs a single prompt through a chat model and returns its text
// output. Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the prompt and returns the model's raw text response.
	// Errors caused by backend rate limiting satisfy IsRateLimit.
	Complete(ctx context.Context, prompt string, params CompleteParams) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages the Embedder and the two
// Completer roles, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Judge returns the completer used for relevance scoring during reranking.
	Judge() Completer

	// Generator returns the completer used for answer synthesis.
	Generator() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
