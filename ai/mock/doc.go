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


// Package mock provides test doubles for the ai package interfaces.
//
// The mocks are deterministic and require no network: the embedder derives
// vectors from a hash of the input text, and the completer returns a fixed
// response unless a function field overrides it. Tests inject behavior
// through the public function fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return customVector, nil
//	}
//
//	judge := mock.NewMockCompleter()
//	judge.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompleteParams) (string, error) {
//	    return "7", nil
//	}
package mock
