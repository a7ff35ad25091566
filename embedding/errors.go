package embedding

import "errors"

var (
	// ErrInvalidInput is returned for empty or whitespace-only text. No provider call is made.
	ErrInvalidInput = errors.New("invalid input: text must not be empty")

	// ErrEmbeddingFailed is returned when a text could not be embedded.
	// The underlying ai error class is joined with it.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrEmbedderRequired is returned when a client is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidMaxEntries is returned when a cache capacity is not positive.
	ErrInvalidMaxEntries = errors.New("maxEntries must be greater than 0")

	// ErrInvalidTTL is returned for a negative cache TTL.
	ErrInvalidTTL = errors.New("ttl must not be negative")
)
