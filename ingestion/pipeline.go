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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/groundit/ai"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/storage"
	"github.com/poiesic/groundit/text"
	"golang.org/x/time/rate"
)

const (
	// DefaultMinChunkChars is the floor below which a chunk is discarded.
	// Fragments shorter than this carry no retrievable meaning.
	DefaultMinChunkChars = 10

	// DefaultEmbedInterval is the minimum spacing between embedding calls.
	DefaultEmbedInterval = 100 * time.Millisecond
)

// Pipeline orchestrates the ingestion of raw text into the vector store.
type Pipeline struct {
	store         storage.VectorStore
	embedder      ai.Embedder
	chunker       *text.Chunker
	limiter       *rate.Limiter
	dedup         *deduplicator
	minChunkChars int
	logger        *slog.Logger
}

// Result summarizes one ingestion run.
type Result struct {
	// ChunksProcessed counts the chunks that survived the length floor.
	ChunksProcessed int

	// NewVectors counts the records actually written. Lower than
	// ChunksProcessed when duplicates or embedding failures occurred.
	NewVectors int
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMaxChunkChars sets the chunk character budget.
// Default is text.DefaultMaxChunkChars.
func WithMaxChunkChars(maxChars int) Option {
	return func(p *Pipeline) error {
		chunker, err := text.NewChunker(maxChars)
		if err != nil {
			return err
		}
		p.chunker = chunker
		return nil
	}
}

// WithMinChunkChars sets the floor below which chunks are discarded.
// Default is DefaultMinChunkChars.
func WithMinChunkChars(minChars int) Option {
	return func(p *Pipeline) error {
		if minChars < 1 {
			return fmt.Errorf("ingestion: min chunk chars must be positive, got %d", minChars)
		}
		p.minChunkChars = minChars
		return nil
	}
}

// WithEmbedInterval sets the minimum spacing between embedding calls.
// Default is DefaultEmbedInterval. Tests use a tiny interval.
func WithEmbedInterval(interval time.Duration) Option {
	return func(p *Pipeline) error {
		if interval <= 0 {
			return fmt.Errorf("ingestion: embed interval must be positive, got %v", interval)
		}
		p.limiter = rate.NewLimiter(rate.Every(interval), 1)
		return nil
	}
}

// WithDedupThreshold sets the distance below which a same-hash stored vector
// counts as a duplicate. Default is DefaultDedupThreshold.
func WithDedupThreshold(threshold float32) Option {
	return func(p *Pipeline) error {
		if threshold <= 0 {
			return fmt.Errorf("ingestion: dedup threshold must be positive, got %v", threshold)
		}
		p.dedup.threshold = threshold
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store storage.VectorStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	logger := slog.Default().With("component", "ingestion")

	chunker, err := text.NewChunker(text.DefaultMaxChunkChars)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:    store,
		embedder: embedder,
		chunker:  chunker,
		limiter:  rate.NewLimiter(rate.Every(DefaultEmbedInterval), 1),
		dedup: &deduplicator{
			store:     store,
			threshold: DefaultDedupThreshold,
			logger:    logger,
		},
		minChunkChars: DefaultMinChunkChars,
		logger:        logger,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// IngestText ingests a snippet of user or tenant text under the given scope.
// The contextID groups the resulting chunks back to their source document.
func (p *Pipeline) IngestText(ctx context.Context, scope core.Scope, contextID, raw string) (*Result, error) {
	return p.ingest(ctx, scope, raw, func(chunkIndex int, chunkText string) (*core.VectorMetadata, error) {
		return core.NewTextMetadata(scope, chunkText, core.TextInfo{
			ContextID:  contextID,
			ChunkIndex: chunkIndex,
		})
	})
}

// IngestNote ingests a platform-owned public document. Notes are visible to
// every user, so no scope is taken.
func (p *Pipeline) IngestNote(ctx context.Context, category core.NoteCategory, raw string) (*Result, error) {
	scope := core.Scope{Visibility: core.VisibilityPublic}
	return p.ingest(ctx, scope, raw, func(chunkIndex int, chunkText string) (*core.VectorMetadata, error) {
		return core.NewNoteMetadata(chunkText, core.NoteInfo{Category: category})
	})
}

// IngestFile ingests one page of an uploaded file. The caller extracts pages
// and calls this per page; chunk indices restart at zero on each page.
func (p *Pipeline) IngestFile(ctx context.Context, scope core.Scope, info core.FileInfo, raw string) (*Result, error) {
	return p.ingest(ctx, scope, raw, func(chunkIndex int, chunkText string) (*core.VectorMetadata, error) {
		pageInfo := info
		pageInfo.ChunkIndex = chunkIndex
		return core.NewFileMetadata(scope, chunkText, pageInfo)
	})
}

// IngestChat ingests a segment of chat history.
func (p *Pipeline) IngestChat(ctx context.Context, scope core.Scope, info core.ChatInfo, raw string) (*Result, error) {
	return p.ingest(ctx, scope, raw, func(chunkIndex int, chunkText string) (*core.VectorMetadata, error) {
		return core.NewChatMetadata(scope, chunkText, info)
	})
}

// metadataFunc builds the metadata for one surviving chunk.
type metadataFunc func(chunkIndex int, chunkText string) (*core.VectorMetadata, error)

func (p *Pipeline) ingest(ctx context.Context, scope core.Scope, raw string, buildMetadata metadataFunc) (*Result, error) {
	normalized := text.Normalize(raw)
	if normalized == "" {
		return nil, ErrEmptyInput
	}

	chunks := p.chunker.Split(normalized)
	result := &Result{}
	var records []*core.VectorRecord

	for i, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if len([]rune(chunk)) < p.minChunkChars {
			continue
		}
		result.ChunksProcessed++

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		embedding, err := p.embedder.EmbedText(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Error("embedding failed, skipping chunk", "chunk_index", i, "err", err)
			continue
		}

		metadata, err := buildMetadata(i, chunk)
		if err != nil {
			return nil, err
		}

		dup, err := p.dedup.isDuplicate(ctx, scope, metadata.ChunkHash, embedding)
		if err != nil {
			// A failed duplicate check must not lose content; store anyway.
			p.logger.Warn("duplicate check failed, storing chunk", "chunk_index", i, "err", err)
		}
		if dup {
			continue
		}

		record, err := core.NewVectorRecord(embedding, metadata)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		if err := p.store.Put(ctx, records...); err != nil {
			return nil, fmt.Errorf("store %d vectors: %w", len(records), err)
		}
	}
	result.NewVectors = len(records)

	p.logger.Info("ingestion complete",
		"chunks", result.ChunksProcessed,
		"new_vectors", result.NewVectors)
	return result, nil
}
