// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package simrank

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/simrank/ai"
	"github.com/poiesic/simrank/ai/azure"
	"github.com/poiesic/simrank/ai/openai"
	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/embedding"
	"github.com/poiesic/simrank/ingestion"
	"github.com/poiesic/simrank/search"
	"github.com/poiesic/simrank/source"
	"github.com/poiesic/simrank/storage"
	"github.com/poiesic/simrank/storage/badger"
	"github.com/poiesic/simrank/warmup"
)

// Engine wires an embedding provider, client and cache together, with an
// optional local catalog of candidates.
type Engine struct {
	provider     ai.Provider
	ownsProvider bool
	client       *embedding.Client
	cache        *embedding.Cache
	catalog      storage.CatalogRepository
	ownsCatalog  bool
	ranker       *search.Orchestrator
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	clientConfig embedding.ClientConfig
	cacheSize    int
	cacheTTL     time.Duration
	catalog      storage.CatalogRepository
	catalogPath  string
	logger       *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) Option {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses an existing provider instead of building one from the
// AI config. The caller keeps ownership of the provider.
func WithProvider(provider ai.Provider) Option {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithClientConfig sets retry and timeout behavior for embedding requests.
// Default is embedding.DefaultClientConfig().
func WithClientConfig(config embedding.ClientConfig) Option {
	return func(o *engineOptions) {
		o.clientConfig = config
	}
}

// WithCacheSize bounds the number of cached embeddings.
// Default is embedding.DefaultMaxEntries.
func WithCacheSize(n int) Option {
	return func(o *engineOptions) {
		o.cacheSize = n
	}
}

// WithCacheTTL expires cached embeddings after ttl. Zero keeps them until evicted.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *engineOptions) {
		o.cacheTTL = ttl
	}
}

// WithCatalog attaches an open catalog repository. The caller keeps ownership.
func WithCatalog(repo storage.CatalogRepository) Option {
	return func(o *engineOptions) {
		o.catalog = repo
	}
}

// WithCatalogPath opens (or creates) an on-disk catalog at path.
// The engine closes it on Close.
func WithCatalogPath(path string) Option {
	return func(o *engineOptions) {
		o.catalogPath = path
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine creates an engine from the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	options := &engineOptions{
		clientConfig: embedding.DefaultClientConfig(),
		cacheSize:    embedding.DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	e := &Engine{
		provider: options.provider,
		catalog:  options.catalog,
		logger:   options.logger.With("component", "engine"),
	}

	if e.provider == nil {
		config := options.aiConfig
		if config == nil {
			config = ai.DefaultConfig()
		}
		provider, err := newProvider(config)
		if err != nil {
			return nil, err
		}
		e.provider = provider
		e.ownsProvider = true
	}

	var err error
	e.client, err = embedding.NewClient(e.provider.Embedder(), options.clientConfig,
		embedding.WithClientLogger(options.logger))
	if err != nil {
		e.Close()
		return nil, err
	}

	cacheOpts := []embedding.CacheOption{
		embedding.WithMaxEntries(options.cacheSize),
		embedding.WithCacheLogger(options.logger),
	}
	if options.cacheTTL > 0 {
		cacheOpts = append(cacheOpts, embedding.WithTTL(options.cacheTTL))
	}
	e.cache, err = embedding.NewCache(cacheOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}

	if e.catalog == nil && options.catalogPath != "" {
		e.catalog, err = badger.OpenCatalog(options.catalogPath)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.ownsCatalog = true
	}

	e.ranker, err = search.NewOrchestrator(e.client, e.cache, search.WithLogger(options.logger))
	if err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

func newProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Provider == ai.ProviderAzure {
		return azure.NewProvider(config)
	}
	return openai.NewProvider(config)
}

// Close releases the ranker, the catalog and the provider, as far as the
// engine owns them.
func (e *Engine) Close() error {
	var errs []error
	if e.ranker != nil {
		e.ranker.Release()
	}
	if e.ownsCatalog && e.catalog != nil {
		if err := e.catalog.Close(); err != nil {
			e.logger.Error("error closing catalog", "err", err)
			errs = append(errs, err)
		}
	}
	if e.ownsProvider && e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Client returns the embedding client.
func (e *Engine) Client() *embedding.Client {
	return e.client
}

// Cache returns the embedding cache shared by everything the engine creates.
func (e *Engine) Cache() *embedding.Cache {
	return e.cache
}

// Catalog returns the catalog repository, or nil if none is attached.
func (e *Engine) Catalog() storage.CatalogRepository {
	return e.catalog
}

// NewOrchestrator creates an orchestrator sharing the engine's client and cache.
// The caller must Release it.
func (e *Engine) NewOrchestrator(opts ...search.Option) (*search.Orchestrator, error) {
	return search.NewOrchestrator(e.client, e.cache, opts...)
}

// Rank ranks candidates against query synchronously.
func (e *Engine) Rank(ctx context.Context, query string, candidates []core.Candidate) ([]core.RankedResult, error) {
	return e.ranker.Rank(ctx, query, candidates)
}

// NewCatalogSource creates a candidate source over the catalog.
func (e *Engine) NewCatalogSource(limit int, opts ...source.CatalogOption) (*source.CatalogSource, error) {
	if e.catalog == nil {
		return nil, ErrCatalogRequired
	}
	return source.NewCatalogSource(e.catalog, limit, opts...)
}

// NewImporter creates an importer that writes to the catalog.
func (e *Engine) NewImporter(opts ...ingestion.Option) (*ingestion.Importer, error) {
	if e.catalog == nil {
		return nil, ErrCatalogRequired
	}
	return ingestion.NewImporter(e.catalog, opts...)
}

// NewWarmer creates a warmer that fills the engine's cache from the catalog.
// The caller must Release it.
func (e *Engine) NewWarmer(opts ...warmup.Option) (*warmup.Warmer, error) {
	if e.catalog == nil {
		return nil, ErrCatalogRequired
	}
	return warmup.NewWarmer(e.catalog, e.client, e.cache, opts...)
}
