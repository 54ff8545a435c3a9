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


package rerank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/groundit/ai"
	"github.com/poiesic/groundit/core"
)

const (
	// DefaultPoolSize bounds concurrent judge calls.
	DefaultPoolSize = 10

	// DefaultScoreFloor is the minimum relevance score a chunk must reach
	// to survive reranking.
	DefaultScoreFloor = 5.0

	// DefaultMaxAttempts bounds retries of a rate-limited judge call.
	DefaultMaxAttempts = 4

	judgeMaxTokens = 10
)

// Reranker scores chunks against a question using a judge model.
type Reranker struct {
	judge       ai.Completer
	pool        *ants.Pool
	scoreFloor  float64
	maxAttempts int
	backoffUnit time.Duration
	logger      *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker) error

// WithPoolSize sets the number of concurrent judge calls.
// Default is DefaultPoolSize.
func WithPoolSize(size int) Option {
	return func(r *Reranker) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithScoreFloor sets the minimum score a chunk must reach.
// Default is DefaultScoreFloor.
func WithScoreFloor(floor float64) Option {
	return func(r *Reranker) error {
		if floor < 0 || floor > 10 {
			return fmt.Errorf("rerank: score floor must be in [0,10], got %v", floor)
		}
		r.scoreFloor = floor
		return nil
	}
}

// WithMaxAttempts sets how many times a rate-limited judge call is tried.
// Default is DefaultMaxAttempts.
func WithMaxAttempts(attempts int) Option {
	return func(r *Reranker) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		r.maxAttempts = attempts
		return nil
	}
}

// WithBackoffUnit sets the time unit of the backoff delay. The default is
// one second; tests shrink it to keep retries fast.
func WithBackoffUnit(unit time.Duration) Option {
	return func(r *Reranker) error {
		if unit <= 0 {
			return fmt.Errorf("rerank: backoff unit must be positive, got %v", unit)
		}
		r.backoffUnit = unit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReranker creates a reranker using the given judge model.
func NewReranker(judge ai.Completer, opts ...Option) (*Reranker, error) {
	if judge == nil {
		return nil, ErrJudgeRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	r := &Reranker{
		judge:       judge,
		pool:        pool,
		scoreFloor:  DefaultScoreFloor,
		maxAttempts: DefaultMaxAttempts,
		backoffUnit: time.Second,
		logger:      slog.Default().With("component", "rerank"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.pool.Release()
			return nil, err
		}
	}
	return r, nil
}

// Rerank scores every chunk against the question concurrently, drops chunks
// below the score floor, and returns the survivors ordered by score, highest
// first. Chunks with equal scores keep their retrieval order.
func (r *Reranker) Rerank(ctx context.Context, question string, chunks []*core.ScoredChunk) ([]*core.ScoredChunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	var wg sync.WaitGroup
	for _, chunk := range chunks {
		chunk := chunk
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			chunk.RerankScore = r.scoreCandidate(ctx, question, chunk.Record.Metadata.ChunkText)
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("rerank: submit scoring task: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept := make([]*core.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.RerankScore >= r.scoreFloor {
			kept = append(kept, chunk)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RerankScore > kept[j].RerankScore
	})

	r.logger.Debug("reranked chunks", "candidates", len(chunks), "kept", len(kept))
	return kept, nil
}

// Release frees the worker pool. The reranker must not be used after.
func (r *Reranker) Release() {
	r.pool.Release()
}

// scoreCandidate asks the judge for a 0-10 relevance score. Failures score
// 0 so one bad call removes a single candidate instead of failing the query.
func (r *Reranker) scoreCandidate(ctx context.Context, question, chunkText string) float64 {
	prompt := buildJudgePrompt(question, chunkText)

	var raw string
	err := retryRateLimited(ctx, func() error {
		var callErr error
		raw, callErr = r.judge.Complete(ctx, prompt, ai.CompleteParams{
			Temperature: 0,
			MaxTokens:   judgeMaxTokens,
		})
		return callErr
	}, r.maxAttempts, r.backoffUnit)
	if err != nil {
		r.logger.Warn("judge call failed, scoring 0", "err", err)
		return 0
	}

	return parseScore(raw, r.logger)
}

func buildJudgePrompt(question, chunkText string) string {
	return fmt.Sprintf(
		"Score the relevance of this chunk to the question: '%s'.\nChunk: %s\nReturn ONLY a number 0-10.",
		question, chunkText)
}

// parseScore extracts a numeric score from the judge's raw output. Models
// sometimes wrap the number in prose, so everything except digits and dots
// is discarded before parsing. Unparseable output scores 0.
func parseScore(raw string, logger *slog.Logger) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	score, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		logger.Warn("unparseable judge output, scoring 0", "raw", raw)
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
