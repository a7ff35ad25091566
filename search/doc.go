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

// Package search ranks candidate sets against free-text queries.
//
// The Orchestrator runs each request as a generation:
//   - The query and every distinct candidate text are embedded concurrently
//     through the shared embedding cache, on a bounded worker pool
//   - A candidate that cannot be embedded is kept and scores 0
//   - A query that cannot be embedded fails the round with ErrQueryEmbeddingFailed
//   - Only the newest generation is ever handed to the listener
//
// Submitting again while a generation is in flight does not cancel its
// provider calls. Their vectors still land in the cache, so the next
// generation usually finds them there.
package search
