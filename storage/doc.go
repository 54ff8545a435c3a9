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


// Package storage provides the vector storage abstraction layer for Groundit.
//
// The VectorStore interface decouples the ingestion and search layers from
// the index implementation. Two backends exist:
//
//   - storage/badger: embedded store with brute-force search, good for local
//     deployments and tests
//   - storage/milvus: Milvus-backed store with an ANN index, good for
//     production corpora
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.VectorStore interface to enforce
// abstraction and keep backends swappable:
//
//	store, err := badger.OpenStore(path)   // returns storage.VectorStore
//	store, err := milvus.OpenStore(ctx, cfg)
//
// # Query Semantics
//
// Queries combine nearest-neighbor search over embeddings with exact-match
// metadata filters. Every filter key must match for a record to be returned;
// a record that lacks a filtered key does not match. Distances are L2, so
// smaller means more similar, and results come back ordered nearest first.
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
