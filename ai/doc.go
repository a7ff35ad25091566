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

// Package ai provides abstractions for the embedding services used by simrank.
//
// The package defines the provider-facing contract that the rest of the
// engine depends on. Higher layers (the embedding client and cache, the
// search orchestrator) only ever see these interfaces.
//
//   - Embedder: turns one text into one vector with a single provider request
//   - Provider: owns an Embedder and its underlying transport
//
// # Implementation Packages
//
//   - ai/openai: OpenAI and OpenAI-compatible servers (Ollama, LocalAI, vLLM) via langchaingo
//   - ai/azure: Azure OpenAI deployments via go-openai
//   - ai/mock: deterministic test doubles
//
// # Error Classes
//
// Implementations classify every failure into one of ErrRateLimited,
// ErrProviderError, ErrInvalidRequest or ErrMalformedResponse. IsRetryable
// reports whether a classified error is worth another attempt. Retrying is
// the caller's job; an Embedder never retries on its own.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderAzure),
//	    ai.WithEmbeddingHost("https://example.openai.azure.com"),
//	    ai.WithEmbeddingModel("my-deployment"),
//	    ai.WithAPIKey(os.Getenv("SIMRANK_API_KEY")),
//	)
//	provider, err := azure.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Deep learning for protein folding")
package ai
