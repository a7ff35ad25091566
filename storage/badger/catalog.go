package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
	owned   bool
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a CatalogRepository on an open backend.
// The caller keeps ownership of the backend.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &CatalogRepository{
		backend: backend,
	}, nil
}

// OpenCatalog opens (or creates) an on-disk catalog at path.
// Closing the returned repository closes the database.
//
// Returns storage.CatalogRepository interface to enforce abstraction.
func OpenCatalog(path string) (storage.CatalogRepository, error) {
	backend, err := OpenBackend(path)
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{backend: backend, owned: true}, nil
}

// Close closes the database if this repository opened it.
func (r *CatalogRepository) Close() error {
	if r.owned {
		return r.backend.Close()
	}
	return nil
}

// WithTransaction delegates to the backend.
func (r *CatalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddEntries adds or replaces one or more catalog entries.
func (r *CatalogRepository) AddEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error) {
	now := time.Now().UTC()
	for _, entry := range entries {
		if entry == nil {
			return nil, core.ValidateCatalogEntry(entry)
		}
		if entry.Id == 0 {
			entry.Id = core.IDFromContent(entry.CandidateID)
		}
		if entry.InsertedAt.IsZero() {
			entry.InsertedAt = now
		}
		if err := core.ValidateCatalogEntry(entry); err != nil {
			return nil, err
		}
	}

	err := r.backend.update(ctx, func(tx *badger.Txn) error {
		for _, entry := range entries {
			if err := tx.Set(makeCatalogKey(entry.CandidateID), storage.MarshalCatalogEntry(entry)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetEntry retrieves a single entry by candidate id.
func (r *CatalogRepository) GetEntry(ctx context.Context, candidateID string) (*core.CatalogEntry, error) {
	var result *core.CatalogEntry
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readEntry(tx, makeCatalogKey(candidateID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	})
	return result, err
}

// GetEntries retrieves multiple entries by candidate id.
func (r *CatalogRepository) GetEntries(ctx context.Context, candidateIDs ...string) ([]*core.CatalogEntry, error) {
	var result []*core.CatalogEntry
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		for _, id := range candidateIDs {
			entry, err := readEntry(tx, makeCatalogKey(id))
			if err != nil {
				return err
			}
			if entry != nil {
				result = append(result, entry)
			}
		}
		return nil
	})
	return result, err
}

// DeleteEntries removes entries by candidate id.
func (r *CatalogRepository) DeleteEntries(ctx context.Context, candidateIDs ...string) error {
	return r.backend.update(ctx, func(tx *badger.Txn) error {
		for _, id := range candidateIDs {
			key := makeCatalogKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// AllEntries returns every entry, ordered by candidate id.
func (r *CatalogRepository) AllEntries(ctx context.Context) ([]*core.CatalogEntry, error) {
	return r.scan(ctx, nil, 0)
}

// SearchEntries returns up to limit entries containing every term of query.
func (r *CatalogRepository) SearchEntries(ctx context.Context, query string, limit int) ([]*core.CatalogEntry, error) {
	return r.scan(ctx, tokenize(query), limit)
}

// Count returns the number of stored entries.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = catalogScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// scan walks the catalog in key order, keeping entries that match terms.
func (r *CatalogRepository) scan(ctx context.Context, terms []string, limit int) ([]*core.CatalogEntry, error) {
	var results []*core.CatalogEntry
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = catalogScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry *core.CatalogEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalCatalogEntry(val)
				return err
			})
			if err != nil {
				r.backend.logger.Warn("skipping unreadable catalog entry",
					"candidateID", candidateIDFromKey(iter.Item().Key()), "err", err)
				continue
			}

			if !containsAllTerms(entry.Text, terms) {
				continue
			}
			results = append(results, entry)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readEntry returns nil, nil when the key is absent.
func readEntry(tx *badger.Txn, key []byte) (*core.CatalogEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.CatalogEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalCatalogEntry(val)
		return unmarshalErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return entry, nil
}
