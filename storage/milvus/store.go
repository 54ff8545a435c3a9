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


package milvus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/storage"
)

// Config holds the Milvus connection settings.
type Config struct {
	// Address is the Milvus server address, e.g. "localhost:19530".
	Address string

	// Collection is the collection name. Defaults to DefaultCollection.
	Collection string
}

// Store is a storage.VectorStore backed by a Milvus collection with an HNSW
// index. Records returned from Query carry metadata but not embeddings;
// callers rank by the distances Milvus computed.
type Store struct {
	client     *milvusclient.Client
	collection string
	logger     *slog.Logger
}

// OpenStore connects to Milvus and ensures the collection, its index, and
// its load state. The collection is created on first use.
//
// Returns the storage.VectorStore interface to enforce abstraction.
func OpenStore(ctx context.Context, cfg Config) (storage.VectorStore, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("milvus: address is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("milvus: connect to %s: %w", cfg.Address, err)
	}

	if err := ensureCollection(ctx, client, cfg.Collection); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}

	return &Store{
		client:     client,
		collection: cfg.Collection,
		logger:     slog.Default().With("component", "milvus-store", "collection", cfg.Collection),
	}, nil
}

// Put upserts records column-wise. Writing an existing key overwrites the
// stored record.
func (s *Store) Put(ctx context.Context, records ...*core.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	keys := make([]string, len(records))
	vectors := make([][]float32, len(records))
	scalars := make(map[string][]string, len(scalarFields))
	for _, f := range scalarFields {
		scalars[f] = make([]string, len(records))
	}
	attrs := make([][]byte, len(records))

	for i, rec := range records {
		if len(rec.Embedding) != core.EmbeddingDim {
			return fmt.Errorf("%w: record %s has %d dimensions", core.ErrDimensionMismatch, rec.Key, len(rec.Embedding))
		}
		if err := rec.Metadata.Validate(); err != nil {
			return fmt.Errorf("record %s: %w", rec.Key, err)
		}

		keys[i] = rec.Key
		vectors[i] = rec.Embedding

		fields := rec.Metadata.ToFields()
		variant := make(map[string]any)
		for k, v := range fields {
			if isScalarField(k) {
				if str, ok := v.(string); ok {
					scalars[k][i] = str
				}
				continue
			}
			variant[k] = v
		}
		data, err := json.Marshal(variant)
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.Key, err)
		}
		attrs[i] = data
	}

	cols := []column.Column{
		column.NewColumnVarChar(fieldKey, keys),
		column.NewColumnFloatVector(fieldEmbedding, core.EmbeddingDim, vectors),
	}
	for _, f := range scalarFields {
		cols = append(cols, column.NewColumnVarChar(f, scalars[f]))
	}
	cols = append(cols, column.NewColumnJSONBytes(fieldAttrs, attrs))

	_, err := s.client.Upsert(ctx, milvusclient.NewColumnBasedInsertOption(s.collection, cols...))
	if err != nil {
		return fmt.Errorf("put %d records: %w", len(records), err)
	}

	s.logger.Debug("stored records", "count", len(records))
	return nil
}

// Query runs an ANN search with the filter expression compiled from params.
func (s *Store) Query(ctx context.Context, params storage.QueryParams) ([]storage.Match, error) {
	if len(params.Vector) != core.EmbeddingDim {
		return nil, fmt.Errorf("%w: query vector has %d dimensions", storage.ErrBadQuery, len(params.Vector))
	}
	if params.TopK <= 0 {
		return nil, fmt.Errorf("%w: TopK must be positive", storage.ErrBadQuery)
	}

	opt := milvusclient.NewSearchOption(
		s.collection,
		params.TopK,
		[]entity.Vector{entity.FloatVector(params.Vector)},
	).
		WithANNSField(fieldEmbedding).
		WithOutputFields(append(append([]string{}, scalarFields...), fieldAttrs)...)

	if expr := BuildExpr(params.Filter); expr != "" {
		opt = opt.WithFilter(expr)
	}

	resultSets, err := s.client.Search(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.collection, err)
	}

	var matches []storage.Match
	for _, rs := range resultSets {
		for i := 0; i < rs.ResultCount; i++ {
			key, err := rs.IDs.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("read result key: %w", err)
			}

			fields, err := s.resultFields(rs, i)
			if err != nil {
				return nil, err
			}

			md, err := core.MetadataFromFields(fields)
			if err != nil {
				s.logger.Warn("skipping record with bad metadata", "key", key, "err", err)
				continue
			}

			matches = append(matches, storage.Match{
				Record: &core.VectorRecord{
					Key:      key,
					Metadata: md,
				},
				Distance: rs.Scores[i],
			})
		}
	}
	return matches, nil
}

// resultFields reassembles the flattened metadata for result row i: scalar
// columns first, then the variant fields from the attrs JSON column. Empty
// scalar values are dropped so the fields match what was flattened at write
// time.
func (s *Store) resultFields(rs milvusclient.ResultSet, i int) (map[string]any, error) {
	fields := make(map[string]any)

	for _, f := range scalarFields {
		col := rs.GetColumn(f)
		if col == nil {
			continue
		}
		val, err := col.GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("read field %s: %w", f, err)
		}
		if val != "" {
			fields[f] = val
		}
	}

	if col := rs.GetColumn(fieldAttrs); col != nil {
		raw, err := col.GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("read attrs: %w", err)
		}
		var variant map[string]any
		if err := json.Unmarshal([]byte(raw), &variant); err != nil {
			return nil, fmt.Errorf("decode attrs: %w", err)
		}
		for k, v := range variant {
			fields[k] = v
		}
	}

	return fields, nil
}

// Close disconnects from Milvus.
func (s *Store) Close() error {
	return s.client.Close(context.Background())
}

func isScalarField(name string) bool {
	for _, f := range scalarFields {
		if f == name {
			return true
		}
	}
	return false
}
