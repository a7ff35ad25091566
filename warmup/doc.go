// Package warmup pre-populates the embedding cache from the local catalog.
//
// A Warmer walks every catalog entry in batches and pushes its text through
// the embedding cache and client, so that later rankings over catalog
// candidates are served from memory. Individual failures are counted and
// logged but never abort the run.
package warmup
