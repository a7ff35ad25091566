package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/embedding"
	"github.com/poiesic/simrank/ranking"
)

// Orchestrator ranks candidate sets against queries, one generation per
// Submit, and delivers only the newest generation's outcome.
type Orchestrator struct {
	client     *embedding.Client
	cache      *embedding.Cache
	pool       *ants.Pool
	listener   Listener
	monitor    Monitor
	maxResults int
	sessionID  string
	logger     *slog.Logger

	mu      sync.Mutex
	current core.Generation
	state   State

	running sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithListener sets the function that receives deliveries from Submit.
func WithListener(listener Listener) Option {
	return func(o *Orchestrator) error {
		o.listener = listener
		return nil
	}
}

// WithMonitor sets a monitor. A nil monitor disables monitoring.
func WithMonitor(monitor Monitor) Option {
	return func(o *Orchestrator) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		o.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of embedding fetches that may run at once.
// Default is DefaultPoolSize().
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if o.pool != nil {
			o.pool.Release()
		}
		o.pool = pool
		return nil
	}
}

// WithMaxResults truncates each ranking to the top n results. Zero keeps all.
func WithMaxResults(n int) Option {
	return func(o *Orchestrator) error {
		if n < 0 {
			n = 0
		}
		o.maxResults = n
		return nil
	}
}

// DefaultPoolSize is runtime.NumCPU(), with a minimum of 4 since the work is
// network bound.
func DefaultPoolSize() int {
	return max(4, runtime.NumCPU())
}

// NewOrchestrator creates an orchestrator that embeds through cache and client.
func NewOrchestrator(client *embedding.Client, cache *embedding.Cache, opts ...Option) (*Orchestrator, error) {
	if client == nil {
		return nil, ErrEmbedderRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize())
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		client:    client,
		cache:     cache,
		pool:      pool,
		monitor:   &noopMonitor{},
		sessionID: uuid.NewString(),
		logger:    slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if err := opt(o); err != nil {
			o.pool.Release()
			return nil, err
		}
	}
	o.logger = o.logger.With("component", "orchestrator", "session", o.sessionID)

	return o, nil
}

// SessionID identifies this orchestrator in logs.
func (o *Orchestrator) SessionID() string {
	return o.sessionID
}

// Current returns the newest generation issued, or zero if none.
func (o *Orchestrator) Current() core.Generation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// State returns the state of the newest generation.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit starts ranking candidates against query and returns the new
// generation immediately. Any older generation still in flight will not be
// delivered. The listener and the monitor's Submitted hook are called with
// the session lock held, so neither may call Submit synchronously.
func (o *Orchestrator) Submit(ctx context.Context, query string, candidates []core.Candidate) core.Generation {
	candidates = slices.Clone(candidates)

	o.mu.Lock()
	o.current++
	gen := o.current
	o.state = StateEmbedding
	o.monitor.Submitted(gen, query, len(candidates))
	o.monitor.StateChanged(gen, StateEmbedding)
	o.mu.Unlock()

	o.logger.Debug("generation submitted", "generation", gen, "candidates", len(candidates))

	o.running.Add(1)
	go func() {
		defer o.running.Done()
		o.run(ctx, gen, query, candidates)
	}()
	return gen
}

// Rank runs the same pipeline as Submit synchronously, without generations
// or listener delivery.
func (o *Orchestrator) Rank(ctx context.Context, query string, candidates []core.Candidate) ([]core.RankedResult, error) {
	queryVector, items, err := o.embed(ctx, 0, query, candidates)
	if err != nil {
		return nil, err
	}
	return o.rank(queryVector, items), nil
}

// Release waits for in-flight generations to finish and releases the worker pool.
// The orchestrator must not be used afterwards.
func (o *Orchestrator) Release() {
	o.running.Wait()
	o.pool.Release()
}

func (o *Orchestrator) run(ctx context.Context, gen core.Generation, query string, candidates []core.Candidate) {
	queryVector, items, err := o.embed(ctx, gen, query, candidates)

	var results []core.RankedResult
	if err == nil {
		if !o.advance(gen, StateRanking) {
			return
		}
		results = o.rank(queryVector, items)
	}
	o.deliver(gen, query, results, err)
}

// embed fetches the query and every distinct candidate text through the cache.
// Candidate failures leave that candidate's vector absent; a query failure
// fails the whole round.
func (o *Orchestrator) embed(ctx context.Context, gen core.Generation, query string, candidates []core.Candidate) ([]float32, []ranking.Item, error) {
	if len(candidates) == 0 {
		return nil, []ranking.Item{}, nil
	}

	texts := make([]string, 0, len(candidates)+1)
	index := make(map[string]int, len(candidates)+1)
	for _, text := range append([]string{query}, candidateTexts(candidates)...) {
		if _, ok := index[text]; !ok {
			index[text] = len(texts)
			texts = append(texts, text)
		}
	}

	type outcome struct {
		vector []float32
		err    error
	}
	outcomes := make([]outcome, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		outcomes[i].err = errTaskAborted
		wg.Add(1)
		err := o.pool.Submit(func() {
			defer wg.Done()
			vector, err := o.cache.GetOrFetch(ctx, text, o.client.FetchFunc(text))
			outcomes[i] = outcome{vector: vector, err: err}
		})
		if err != nil {
			wg.Done()
			outcomes[i].err = fmt.Errorf("%w: %w", errTaskAborted, err)
		}
	}
	wg.Wait()

	q := outcomes[index[query]]
	if q.err != nil {
		o.logger.Warn("query embedding failed", "generation", gen, "err", q.err)
		return nil, nil, fmt.Errorf("%w: %w", ErrQueryEmbeddingFailed, q.err)
	}

	items := make([]ranking.Item, len(candidates))
	for i, candidate := range candidates {
		out := outcomes[index[candidate.Text]]
		items[i] = ranking.Item{Candidate: candidate, Vector: out.vector}
		if out.err != nil {
			o.logger.Warn("candidate embedding failed", "generation", gen, "candidate", candidate.ID, "err", out.err)
			o.monitor.EmbeddingFailed(gen, candidate, out.err)
		}
	}
	return q.vector, items, nil
}

func (o *Orchestrator) rank(queryVector []float32, items []ranking.Item) []core.RankedResult {
	return ranking.TopK(ranking.Rank(queryVector, items), o.maxResults)
}

// advance moves gen to state, or discards it if a newer generation exists.
// It reports whether gen is still current.
func (o *Orchestrator) advance(gen core.Generation, state State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.current {
		o.discard(gen)
		return false
	}
	o.state = state
	o.monitor.StateChanged(gen, state)
	return true
}

// discard must be called with the session lock held.
func (o *Orchestrator) discard(gen core.Generation) {
	o.logger.Debug("generation superseded", "generation", gen)
	o.monitor.StateChanged(gen, StateCancelled)
	o.monitor.Discarded(gen)
}

// deliver hands the outcome to the listener unless a newer generation exists.
// The check and the hand-off happen under one lock acquisition so Submit
// cannot slip in between.
func (o *Orchestrator) deliver(gen core.Generation, query string, results []core.RankedResult, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.current {
		o.discard(gen)
		return
	}

	state := StateDelivered
	if err != nil {
		state = StateFailed
	}
	o.state = state
	o.monitor.StateChanged(gen, state)

	d := Delivery{Generation: gen, Query: query, Results: results, Err: err}
	o.logger.Debug("generation delivered", "generation", gen, "results", len(results), "err", err)
	if o.listener != nil {
		o.listener(d)
	}
	o.monitor.Delivered(d)
}

func candidateTexts(candidates []core.Candidate) []string {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	return texts
}
