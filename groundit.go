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


// Package groundit assembles the ingestion and search layers into one
// retrieval-augmented engine: text goes in as scoped, deduplicated vectors,
// and questions come back answered from the asker's own stored content.
package groundit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/groundit/ai"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/ingestion"
	"github.com/poiesic/groundit/search"
	"github.com/poiesic/groundit/storage"
)

// ErrUserRequired indicates an operation without a user identity.
var ErrUserRequired = errors.New("groundit: user id is required")

// Engine is the top-level facade over the vector store and the AI provider.
// It owns the ingestion pipeline and the searcher; Close releases everything
// including the store and provider handed to NewEngine.
type Engine struct {
	store    storage.VectorStore
	provider ai.Provider
	pipeline *ingestion.Pipeline
	searcher *search.Searcher
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	ingestOpts []ingestion.Option
	searchOpts []search.Option
}

// WithIngestionOptions forwards options to the ingestion pipeline.
func WithIngestionOptions(opts ...ingestion.Option) EngineOption {
	return func(o *engineOptions) {
		o.ingestOpts = append(o.ingestOpts, opts...)
	}
}

// WithSearchOptions forwards options to the searcher.
func WithSearchOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// NewEngine wires a vector store and an AI provider into an engine. The
// engine takes ownership of both; Close releases them.
func NewEngine(store storage.VectorStore, provider ai.Provider, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	pipeline, err := ingestion.NewPipeline(store, provider.Embedder(), options.ingestOpts...)
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(store, provider, options.searchOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:    store,
		provider: provider,
		pipeline: pipeline,
		searcher: searcher,
		logger:   slog.Default().With("component", "engine"),
	}, nil
}

// Ingest stores a snippet of private text for the given user. Each call is
// its own document; the returned result says how many chunks were processed
// and how many vectors were actually new.
func (e *Engine) Ingest(ctx context.Context, userID, content string) (*ingestion.Result, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	scope := core.Scope{UserID: userID, Visibility: core.VisibilityPrivate}
	return e.pipeline.IngestText(ctx, scope, core.NewKey(), content)
}

// IngestNote stores a platform-owned public document visible to every user.
func (e *Engine) IngestNote(ctx context.Context, category core.NoteCategory, content string) (*ingestion.Result, error) {
	return e.pipeline.IngestNote(ctx, category, content)
}

// Query answers a question from the given user's stored content. When
// nothing relevant is found, it returns search.FallbackAnswer rather than an
// invented answer.
func (e *Engine) Query(ctx context.Context, userID, question string) (string, error) {
	if userID == "" {
		return "", ErrUserRequired
	}
	scope := core.Scope{UserID: userID, Visibility: core.VisibilityPrivate}
	return e.searcher.Answer(ctx, scope, question)
}

// Pipeline exposes the ingestion pipeline for callers that need the scoped
// ingest variants (files, chat history, tenant text).
func (e *Engine) Pipeline() *ingestion.Pipeline {
	return e.pipeline
}

// Searcher exposes the underlying searcher for scope-level queries.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// Close releases the searcher, the AI provider, and the store.
func (e *Engine) Close() error {
	e.searcher.Close()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}
