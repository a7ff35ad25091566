// Package simrank ranks candidate documents by semantic similarity to a
// query using text embeddings.
//
// An Engine holds the embedding provider, a retrying client and an in-memory
// embedding cache. Rankings run through search.Orchestrator, which embeds the
// query and every candidate concurrently, scores them by cosine similarity
// and, in session mode, delivers only the newest query's results.
//
// Example:
//
//	engine, err := simrank.NewEngine(simrank.WithAIConfig(ai.NewConfig(
//	    ai.WithEmbeddingHost("http://localhost:11434"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	)))
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	results, err := engine.Rank(ctx, "protein folding", candidates)
package simrank
