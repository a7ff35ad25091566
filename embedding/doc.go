// Package embedding turns text into vectors with as few provider calls as possible.
//
// Client wraps an ai.Embedder with per-attempt timeouts, bounded exponential
// backoff with jitter, and response validation. Cache sits in front of it and
// keeps one vector per exact text, coalescing concurrent requests for the
// same text into a single fetch:
//
//	client, _ := embedding.NewClient(provider.Embedder(), embedding.DefaultClientConfig())
//	cache, _ := embedding.NewCache(embedding.WithMaxEntries(10_000))
//
//	vec, err := cache.GetOrFetch(ctx, text, func(ctx context.Context) ([]float32, error) {
//	    return client.Embed(ctx, text)
//	})
package embedding
