package source

import (
	"context"
	"fmt"

	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/storage"
)

// CatalogSource searches a local catalog for candidates.
type CatalogSource struct {
	repo      storage.CatalogRepository
	limit     int
	stopWords []string
}

var _ CandidateSource = (*CatalogSource)(nil)

// CatalogOption configures a CatalogSource.
type CatalogOption func(*CatalogSource) error

// WithStopWords replaces the stop word list used to clean queries.
func WithStopWords(words []string) CatalogOption {
	return func(s *CatalogSource) error {
		s.stopWords = words
		return nil
	}
}

// NewCatalogSource creates a source that returns up to limit catalog entries
// matching the cleaned query. limit <= 0 means no limit.
func NewCatalogSource(repo storage.CatalogRepository, limit int, opts ...CatalogOption) (*CatalogSource, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	s := &CatalogSource{repo: repo, limit: limit}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search returns catalog entries containing every term of the cleaned query.
func (s *CatalogSource) Search(ctx context.Context, query string) ([]core.Candidate, error) {
	entries, err := s.repo.SearchEntries(ctx, CleanQuery(query, s.stopWords), s.limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	candidates := make([]core.Candidate, len(entries))
	for i, entry := range entries {
		candidates[i] = entry.Candidate()
	}
	return candidates, nil
}
