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


// Package search answers questions from a user's stored content.
//
// The Searcher type implements the retrieval side of the system:
//
//   - the question is embedded and the nearest stored chunks fetched,
//     scoped to the asking user
//   - a judge model reranks the candidates and discards the irrelevant ones
//   - a generator model synthesizes an answer grounded in what survived
//
// When nothing relevant survives, the generator is never called and a fixed
// fallback answer is returned, so the model cannot invent an answer without
// grounding.
package search
