package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity ranking.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// One call issues exactly one request to the provider; implementations
	// do not retry. Failures should wrap one of ErrRateLimited,
	// ErrProviderError, ErrInvalidRequest or ErrMalformedResponse so callers
	// can decide whether a retry makes sense.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
