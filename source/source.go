package source

import (
	"context"
	"slices"

	"github.com/poiesic/simrank/core"
)

// CandidateSource discovers candidates for a query.
// An empty result is zero candidates, not an error.
type CandidateSource interface {
	Search(ctx context.Context, query string) ([]core.Candidate, error)
}

// Static returns the same candidates for every query.
type Static []core.Candidate

var _ CandidateSource = Static(nil)

// Search returns a copy of the static candidate list.
func (s Static) Search(ctx context.Context, query string) ([]core.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return []core.Candidate{}, nil
	}
	return slices.Clone([]core.Candidate(s)), nil
}
