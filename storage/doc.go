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


// Package storage provides the storage abstraction for the simrank candidate catalog.
//
// The catalog is an optional collaborator: it holds candidate documents so
// they can be ranked without a remote search service. Embeddings are never
// persisted here; they live only in the in-process embedding cache.
//
// # Constructor Return Type Pattern
//
// Public constructors return the CatalogRepository interface to keep callers
// independent of BadgerDB:
//
//	repo, err := badger.OpenCatalog("/path/to/catalog")  // returns storage.CatalogRepository
//
// # Usage
//
//	repo, err := badger.OpenCatalog("/path/to/catalog")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	_, err = repo.AddEntries(ctx, &core.CatalogEntry{CandidateID: "p1", Text: "Attention Is All You Need"})
//	entries, err := repo.SearchEntries(ctx, "attention", 100)
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryCatalog()
package storage
