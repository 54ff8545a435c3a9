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


// Package ai provides abstractions for the AI services used by Groundit.
//
// Three interfaces cover every model interaction in the pipeline:
//
//   - Embedder: turns text into fixed-dimension vectors
//   - Completer: runs a single prompt through a chat model
//   - Provider: aggregates the services and owns their lifecycle
//
// The ingestion and search layers depend only on these interfaces. Two
// implementation sub-packages exist:
//
//   - ai/openai: production implementation against any OpenAI-compatible API
//   - ai/mock: deterministic test doubles, no network required
//
// A Provider hands out two Completer instances for two distinct jobs: Judge
// returns the model used for relevance scoring during reranking, Generator
// the model used for answer synthesis. They may be backed by the same model
// or by differently sized ones, which is why they are configured separately.
//
// Rate-limit responses from a backend are wrapped with ErrRateLimited so
// callers can decide to retry. Use IsRateLimit to test for it.
package ai
