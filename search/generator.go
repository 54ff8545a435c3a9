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


package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/groundit/ai"
	"github.com/poiesic/groundit/core"
)

// FallbackAnswer is returned when no grounding material survives reranking.
const FallbackAnswer = "I don't have enough information to answer that."

const (
	generationTemperature = 0.2
	generationMaxTokens   = 512
)

// generateAnswer synthesizes an answer from the surviving chunks. With no
// chunks it returns FallbackAnswer without calling the model, so an
// ungrounded answer cannot be produced.
func generateAnswer(ctx context.Context, generator ai.Completer, question string, chunks []*core.ScoredChunk) (string, error) {
	if len(chunks) == 0 {
		return FallbackAnswer, nil
	}

	answer, err := generator.Complete(ctx, buildAnswerPrompt(question, chunks), ai.CompleteParams{
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}

func buildAnswerPrompt(question string, chunks []*core.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Answer the question using ONLY the sources below. ")
	b.WriteString("If the sources do not contain the answer, say you don't know.\n\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "Source %d: %s\n", i+1, chunk.Record.Metadata.ChunkText)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n\nAnswer:", question)
	return b.String()
}
