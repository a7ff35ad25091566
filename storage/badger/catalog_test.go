package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) storage.CatalogRepository {
	t.Helper()
	repo, err := NewMemoryCatalog()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedCatalog(t *testing.T, repo storage.CatalogRepository) {
	t.Helper()
	_, err := repo.AddEntries(context.Background(),
		&core.CatalogEntry{CandidateID: "a1", Text: "Deep learning for protein structure prediction"},
		&core.CatalogEntry{CandidateID: "b2", Text: "A survey of graph neural networks"},
		&core.CatalogEntry{CandidateID: "c3", Text: "Protein-protein interaction networks, revisited"},
	)
	require.NoError(t, err)
}

func TestAddEntries(t *testing.T) {
	repo := newTestCatalog(t)
	ctx := context.Background()

	entry := &core.CatalogEntry{CandidateID: "x", Text: "Sparse attention", Source: "import"}
	added, err := repo.AddEntries(ctx, entry)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, core.IDFromContent("x"), added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())

	got, err := repo.GetEntry(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "Sparse attention", got.Text)
	assert.Equal(t, "import", got.Source)
	assert.Equal(t, added[0].Id, got.Id)

	t.Run("replaces existing entry", func(t *testing.T) {
		_, err := repo.AddEntries(ctx, &core.CatalogEntry{CandidateID: "x", Text: "Sparse attention, v2"})
		require.NoError(t, err)

		got, err := repo.GetEntry(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, "Sparse attention, v2", got.Text)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("rejects invalid entries atomically", func(t *testing.T) {
		_, err := repo.AddEntries(ctx,
			&core.CatalogEntry{CandidateID: "ok", Text: "fine"},
			&core.CatalogEntry{CandidateID: "bad"},
		)
		assert.ErrorIs(t, err, core.ErrInvalidCatalogEntry)

		_, err = repo.GetEntry(ctx, "ok")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("rejects future timestamps", func(t *testing.T) {
		_, err := repo.AddEntries(ctx, &core.CatalogEntry{
			CandidateID: "future",
			Text:        "later",
			InsertedAt:  time.Now().Add(time.Hour),
		})
		assert.ErrorIs(t, err, core.ErrInvalidTimestamp)
	})

	t.Run("rejects nil entry", func(t *testing.T) {
		_, err := repo.AddEntries(ctx, nil)
		assert.ErrorIs(t, err, core.ErrInvalidCatalogEntry)
	})
}

func TestGetEntryNotFound(t *testing.T) {
	repo := newTestCatalog(t)

	_, err := repo.GetEntry(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetEntries(t *testing.T) {
	repo := newTestCatalog(t)
	seedCatalog(t, repo)

	entries, err := repo.GetEntries(context.Background(), "c3", "missing", "a1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c3", entries[0].CandidateID)
	assert.Equal(t, "a1", entries[1].CandidateID)
}

func TestDeleteEntries(t *testing.T) {
	repo := newTestCatalog(t)
	seedCatalog(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.DeleteEntries(ctx, "b2"))
	_, err := repo.GetEntry(ctx, "b2")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repo.DeleteEntries(ctx, "a1", "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	// The whole delete is rolled back.
	_, err = repo.GetEntry(ctx, "a1")
	assert.NoError(t, err)
}

func TestAllEntriesAndCount(t *testing.T) {
	repo := newTestCatalog(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	seedCatalog(t, repo)

	entries, err := repo.AllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a1", entries[0].CandidateID)
	assert.Equal(t, "b2", entries[1].CandidateID)
	assert.Equal(t, "c3", entries[2].CandidateID)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSearchEntries(t *testing.T) {
	repo := newTestCatalog(t)
	seedCatalog(t, repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		limit    int
		expected []string
	}{
		{name: "single term", query: "protein", expected: []string{"a1"}},
		{name: "case insensitive", query: "NETWORKS", expected: []string{"b2", "c3"}},
		{name: "all terms must match", query: "graph networks", expected: []string{"b2"}},
		{name: "punctuation ignored", query: "networks,", expected: []string{"b2", "c3"}},
		{name: "no match", query: "quantum", expected: nil},
		{name: "empty query matches all", query: "", expected: []string{"a1", "b2", "c3"}},
		{name: "limit", query: "", limit: 2, expected: []string{"a1", "b2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.SearchEntries(ctx, tt.query, tt.limit)
			require.NoError(t, err)

			var ids []string
			for _, e := range entries {
				ids = append(ids, e.CandidateID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestSearchEntriesCancelled(t *testing.T) {
	repo := newTestCatalog(t)
	seedCatalog(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.SearchEntries(ctx, "", 0)
	assert.ErrorIs(t, err, context.Canceled)
}
