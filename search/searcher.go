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
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/groundit/ai"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/rerank"
	"github.com/poiesic/groundit/storage"
)

// DefaultTopK is the number of candidates retrieved before reranking.
const DefaultTopK = 5

var (
	// ErrStoreRequired indicates a nil vector store was passed to NewSearcher.
	ErrStoreRequired = errors.New("search: vector store is required")

	// ErrProviderRequired indicates a nil AI provider was passed to NewSearcher.
	ErrProviderRequired = errors.New("search: ai provider is required")

	// ErrEmptyQuery indicates an empty question.
	ErrEmptyQuery = errors.New("search: query is empty")
)

// Searcher answers questions from stored content. It embeds the question,
// retrieves candidates scoped to the asker, reranks them, and synthesizes a
// grounded answer.
type Searcher struct {
	store    storage.VectorStore
	embedder ai.Embedder
	reranker *rerank.Reranker
	judge    ai.Completer
	gen      ai.Completer
	topK     int
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithTopK sets the number of candidates retrieved before reranking.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(s *Searcher) error {
		if topK < 1 {
			return fmt.Errorf("search: topK must be positive, got %d", topK)
		}
		s.topK = topK
		return nil
	}
}

// WithRerankOptions forwards options to the underlying reranker.
func WithRerankOptions(opts ...rerank.Option) Option {
	return func(s *Searcher) error {
		reranker, err := rerank.NewReranker(s.judge, opts...)
		if err != nil {
			return err
		}
		if s.reranker != nil {
			s.reranker.Release()
		}
		s.reranker = reranker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a searcher over the given store and AI provider.
func NewSearcher(store storage.VectorStore, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	reranker, err := rerank.NewReranker(provider.Judge())
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		store:    store,
		embedder: provider.Embedder(),
		reranker: reranker,
		judge:    provider.Judge(),
		gen:      provider.Generator(),
		topK:     DefaultTopK,
		logger:   slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.reranker.Release()
			return nil, err
		}
	}
	return s, nil
}

// Answer responds to the question from content visible to the given scope.
// A query that retrieves nothing, or whose candidates all fall below the
// relevance floor, returns FallbackAnswer.
func (s *Searcher) Answer(ctx context.Context, scope core.Scope, question string) (string, error) {
	if question == "" {
		return "", ErrEmptyQuery
	}

	vector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	filter := storage.Filter{}
	if scope.UserID != "" {
		filter["user_id"] = scope.UserID
	}
	if scope.TenantID != "" {
		filter["tenant_id"] = scope.TenantID
	}
	if scope.Visibility != "" {
		filter["visibility"] = string(scope.Visibility)
	}

	matches, err := s.store.Query(ctx, storage.QueryParams{
		Vector: vector,
		TopK:   s.topK,
		Filter: filter,
	})
	if err != nil {
		return "", fmt.Errorf("retrieve candidates: %w", err)
	}

	if len(matches) == 0 {
		s.logger.Debug("no candidates retrieved", "question_length", len(question))
		return FallbackAnswer, nil
	}

	chunks := make([]*core.ScoredChunk, len(matches))
	for i, m := range matches {
		chunks[i] = &core.ScoredChunk{Record: m.Record, Distance: m.Distance}
	}

	kept, err := s.reranker.Rerank(ctx, question, chunks)
	if err != nil {
		return "", fmt.Errorf("rerank candidates: %w", err)
	}

	s.logger.Debug("answering", "retrieved", len(matches), "kept", len(kept))
	return generateAnswer(ctx, s.gen, question, kept)
}

// Close releases the searcher's resources.
func (s *Searcher) Close() {
	s.reranker.Release()
}
