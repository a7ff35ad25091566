package ranking

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/poiesic/simrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankExample(t *testing.T) {
	// cos(query, A) ≈ 0.91 and cos(query, B) ≈ 0.02
	query := []float32{1, 0}
	items := []Item{
		{Candidate: core.Candidate{ID: "B", Text: "unrelated"}, Vector: []float32{0.02, 0.9998}},
		{Candidate: core.Candidate{ID: "A", Text: "related"}, Vector: []float32{0.91, 0.4146}},
	}

	results := Rank(query, items)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].Candidate.ID)
	assert.InDelta(t, 0.91, results[0].Similarity, 1e-3)
	assert.Equal(t, "B", results[1].Candidate.ID)
	assert.InDelta(t, 0.02, results[1].Similarity, 1e-3)
}

func TestRankAbsentVectorScoresZero(t *testing.T) {
	query := []float32{1, 0, 0}
	items := []Item{
		{Candidate: core.Candidate{ID: "missing"}},
		{Candidate: core.Candidate{ID: "short"}, Vector: []float32{1, 0}},
		{Candidate: core.Candidate{ID: "good"}, Vector: []float32{0.9, 0.1, 0}},
	}

	results := Rank(query, items)
	require.Len(t, results, 3)
	assert.Equal(t, "good", results[0].Candidate.ID)
	assert.Zero(t, results[1].Similarity)
	assert.Zero(t, results[2].Similarity)
	// Ties keep input order.
	assert.Equal(t, "missing", results[1].Candidate.ID)
	assert.Equal(t, "short", results[2].Candidate.ID)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	query := []float32{1, 1}
	items := make([]Item, 5)
	for i := range items {
		items[i] = Item{Candidate: core.Candidate{ID: fmt.Sprint(i)}, Vector: []float32{2, 2}}
	}

	results := Rank(query, items)
	for i, r := range results {
		assert.Equal(t, fmt.Sprint(i), r.Candidate.ID)
	}
}

func TestRankIsPermutation(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	query := []float32{r.Float32(), r.Float32(), r.Float32()}

	for round := range 20 {
		n := r.IntN(30)
		items := make([]Item, n)
		for i := range items {
			items[i].Candidate = core.Candidate{ID: fmt.Sprintf("%d-%d", round, i)}
			if r.IntN(3) > 0 {
				items[i].Vector = []float32{r.Float32()*2 - 1, r.Float32()*2 - 1, r.Float32()*2 - 1}
			}
		}

		results := Rank(query, items)
		require.Len(t, results, n)

		seen := make(map[string]int)
		for i, res := range results {
			seen[res.Candidate.ID]++
			if i > 0 {
				assert.GreaterOrEqual(t, results[i-1].Similarity, res.Similarity)
			}
			assert.GreaterOrEqual(t, res.Similarity, -1.0)
			assert.LessOrEqual(t, res.Similarity, 1.0)
		}
		for _, item := range items {
			assert.Equal(t, 1, seen[item.Candidate.ID])
		}
	}
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank([]float32{1}, nil))
}

func TestTopK(t *testing.T) {
	results := []core.RankedResult{
		{Candidate: core.Candidate{ID: "a"}, Similarity: 0.9},
		{Candidate: core.Candidate{ID: "b"}, Similarity: 0.5},
		{Candidate: core.Candidate{ID: "c"}, Similarity: 0.1},
	}

	assert.Len(t, TopK(results, 0), 3)
	assert.Len(t, TopK(results, -1), 3)
	assert.Len(t, TopK(results, 10), 3)
	top := TopK(results, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].Candidate.ID)
	assert.Equal(t, "b", top[1].Candidate.ID)
}
