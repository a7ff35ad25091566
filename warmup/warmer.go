package warmup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/embedding"
	"github.com/poiesic/simrank/storage"
)

// Config holds configuration for a warmup run.
type Config struct {
	// BatchSize is the number of entries submitted before waiting for completion
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// PoolSize is the number of embedding fetches that may run at once
	PoolSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 50,
		PoolSize:       4,
	}
}

// Result summarizes a warmup run.
type Result struct {
	Total  int // Entries in the catalog
	Warmed int // Entries embedded during this run
	Cached int // Entries already in the cache
	Failed int // Entries whose embedding failed
}

// Warmer embeds every catalog entry into the cache.
type Warmer struct {
	repo     storage.CatalogRepository
	client   *embedding.Client
	cache    *embedding.Cache
	config   *Config
	progress io.Writer
	pool     *ants.Pool
	iterator *EntryIterator
	logger   *slog.Logger
}

// Option configures a Warmer.
type Option func(*Warmer) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(w *Warmer) error {
		if config != nil {
			w.config = config
		}
		return nil
	}
}

// WithProgress sets where progress is written (typically os.Stderr).
// Default is no progress output.
func WithProgress(writer io.Writer) Option {
	return func(w *Warmer) error {
		w.progress = writer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Warmer) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWarmer creates a warmer that fills cache from repo through client.
func NewWarmer(repo storage.CatalogRepository, client *embedding.Client, cache *embedding.Cache, opts ...Option) (*Warmer, error) {
	if repo == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}

	w := &Warmer{
		repo:     repo,
		client:   client,
		cache:    cache,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if w.progress == nil {
		w.progress = io.Discard
	}

	pool, err := ants.NewPool(max(1, w.config.PoolSize))
	if err != nil {
		return nil, err
	}
	w.pool = pool
	w.iterator = NewEntryIterator(repo, w.config.BatchSize)
	w.logger = w.logger.With("component", "warmer")
	return w, nil
}

// Release releases the worker pool. The warmer must not be used afterwards.
func (w *Warmer) Release() {
	w.pool.Release()
}

// Run embeds every catalog entry not already cached. Failed entries are
// counted in the result; only cancellation or a catalog read error stops
// the run.
func (w *Warmer) Run(ctx context.Context) (Result, error) {
	total, err := w.repo.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to count entries: %w", err)
	}

	result := Result{Total: total}
	if total == 0 {
		fmt.Fprintf(w.progress, "No entries found in catalog\n")
		return result, nil
	}

	fmt.Fprintf(w.progress, "Warming cache with %d entries (batch size: %d)\n", total, w.iterator.batchSize)

	tracker := NewProgressTracker(w.progress, total, w.config.ReportInterval)
	tracker.Start()

	var warmed, failed atomic.Int64
	err = w.iterator.ForEach(ctx, func(entries []*core.CatalogEntry) error {
		var wg sync.WaitGroup
		for _, entry := range entries {
			if _, ok := w.cache.Get(entry.Text); ok {
				result.Cached++
				tracker.Done(1, 0)
				continue
			}

			wg.Add(1)
			submitErr := w.pool.Submit(func() {
				defer wg.Done()

				if _, err := w.cache.GetOrFetch(ctx, entry.Text, w.client.FetchFunc(entry.Text)); err != nil {
					if ctx.Err() == nil {
						w.logger.Warn("warmup embedding failed", "candidate", entry.CandidateID, "err", err)
						failed.Add(1)
						tracker.Done(1, 1)
					}
					return
				}
				warmed.Add(1)
				tracker.Done(1, 0)
			})
			if submitErr != nil {
				wg.Done()
				return fmt.Errorf("failed to submit entry: %w", submitErr)
			}
		}
		wg.Wait()
		return nil
	})

	result.Warmed = int(warmed.Load())
	result.Failed = int(failed.Load())

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(w.progress)
		}
		return result, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(w.progress, "Warmup complete. Embedded %d, cached %d, failed %d in %v\n",
		result.Warmed, result.Cached, result.Failed, elapsed.Round(time.Millisecond))
	w.logger.Info("warmup complete", "total", total, "warmed", result.Warmed, "cached", result.Cached, "failed", result.Failed)

	return result, nil
}
