package badger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", InMemory())
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "catalog")
	backend, err := OpenBackend(tmpDir, WithSyncWrites(true))
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0o644))

	_, err := OpenBackend(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", InMemory())
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestWithTransaction(t *testing.T) {
	backend, err := OpenBackend("", InMemory())
	require.NoError(t, err)
	defer backend.Close()

	repo, err := NewCatalogRepository(backend)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		err := repo.WithTransaction(ctx, func(ctx context.Context) error {
			if _, err := repo.AddEntries(ctx, &core.CatalogEntry{CandidateID: "a", Text: "alpha"}); err != nil {
				return err
			}
			// Reads inside the transaction see its own writes.
			entry, err := repo.GetEntry(ctx, "a")
			if err != nil {
				return err
			}
			assert.Equal(t, "alpha", entry.Text)
			return nil
		})
		require.NoError(t, err)

		_, err = repo.GetEntry(ctx, "a")
		assert.NoError(t, err)
	})

	t.Run("rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := repo.WithTransaction(ctx, func(ctx context.Context) error {
			if _, err := repo.AddEntries(ctx, &core.CatalogEntry{CandidateID: "b", Text: "beta"}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = repo.GetEntry(ctx, "b")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("nested joins outer", func(t *testing.T) {
		err := repo.WithTransaction(ctx, func(ctx context.Context) error {
			return repo.WithTransaction(ctx, func(ctx context.Context) error {
				_, err := repo.AddEntries(ctx, &core.CatalogEntry{CandidateID: "c", Text: "gamma"})
				return err
			})
		})
		require.NoError(t, err)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestNewCatalogRepository_RequiresBackend(t *testing.T) {
	_, err := NewCatalogRepository(nil)
	assert.ErrorIs(t, err, storage.ErrBackendRequired)
}

func TestOpenCatalogPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := OpenCatalog(dir)
	require.NoError(t, err)
	_, err = repo.AddEntries(ctx, &core.CatalogEntry{CandidateID: "p1", Text: "Persistent homology"})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = OpenCatalog(dir)
	require.NoError(t, err)
	defer repo.Close()

	entry, err := repo.GetEntry(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Persistent homology", entry.Text)
}
