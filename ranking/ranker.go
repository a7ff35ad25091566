package ranking

import (
	"slices"

	"github.com/poiesic/simrank/core"
)

// Item is a candidate paired with its embedding. A nil Vector means the
// embedding is absent, and the candidate scores 0.
type Item struct {
	Candidate core.Candidate
	Vector    []float32
}

// Rank scores every item against query and orders the results by similarity,
// highest first. Items with equal similarity keep their input order. Every
// item appears exactly once in the output.
func Rank(query []float32, items []Item) []core.RankedResult {
	results := make([]core.RankedResult, len(items))
	for i, item := range items {
		results[i] = core.RankedResult{
			Candidate:  item.Candidate,
			Similarity: CosineSimilarity(query, item.Vector),
		}
	}

	slices.SortStableFunc(results, func(a, b core.RankedResult) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return 0
	})
	return results
}

// TopK returns the first k results. k <= 0 or k beyond the length returns
// results unchanged.
func TopK(results []core.RankedResult, k int) []core.RankedResult {
	if k <= 0 || k >= len(results) {
		return results
	}
	return results[:k]
}
