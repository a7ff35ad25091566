package storage

import (
	"context"

	"github.com/poiesic/simrank/core"
)

// CatalogRepository stores the candidate documents that the catalog source
// ranks. Entries are keyed by CandidateID.
// Implementations must be thread-safe and support concurrent access.
type CatalogRepository interface {
	// AddEntries adds or replaces one or more catalog entries.
	// Sets Id from the candidate id and InsertedAt if not already set.
	// Returns the entries with generated fields populated.
	AddEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error)

	// GetEntry retrieves a single entry by candidate id.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, candidateID string) (*core.CatalogEntry, error)

	// GetEntries retrieves multiple entries by candidate id.
	// Returns only the entries that exist (no error for missing entries).
	GetEntries(ctx context.Context, candidateIDs ...string) ([]*core.CatalogEntry, error)

	// DeleteEntries removes entries by candidate id.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteEntries(ctx context.Context, candidateIDs ...string) error

	// AllEntries returns every entry, ordered by candidate id.
	AllEntries(ctx context.Context) ([]*core.CatalogEntry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// SearchEntries returns up to limit entries whose text contains every
	// term of query, ordered by candidate id. An empty query matches all
	// entries. limit <= 0 means no limit.
	SearchEntries(ctx context.Context, query string, limit int) ([]*core.CatalogEntry, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
