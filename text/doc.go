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


// Package text prepares raw documents for embedding.
//
// It provides two stages that run in order during ingestion:
//
//   - Normalize: cleans extraction artifacts (dot leaders, hyphenated line
//     breaks, stray symbols) and canonicalizes whitespace and case. The
//     function is idempotent, so re-normalizing stored text is a no-op.
//   - Chunker: splits normalized text into pieces that fit a character
//     budget, preferring paragraph boundaries over sentence boundaries over
//     word boundaries, and falling back to a hard character split only when
//     a single word exceeds the budget.
package text
