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


package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/storage"
)

const recordPrefix = "vr:"

// Store is an embedded storage.VectorStore backed by BadgerDB. Queries scan
// the full record set, so it fits local deployments and tests rather than
// large corpora.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// storedRecord is the JSON form a record is persisted in. Metadata is kept
// flattened so the stored shape matches what filters address.
type storedRecord struct {
	Key       string         `json:"key"`
	Embedding []float32      `json:"embedding"`
	Fields    map[string]any `json:"fields"`
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a BadgerDB-backed vector store at the specified path.
// Creates the directory if it doesn't exist.
//
// Returns the storage.VectorStore interface to enforce abstraction.
func OpenStore(filePath string) (storage.VectorStore, error) {
	return openStore(filePath, false)
}

// OpenMemoryStore opens an in-memory store. Intended for tests.
func OpenMemoryStore() (storage.VectorStore, error) {
	return openStore("", true)
}

func openStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "badger-store"),
	}, nil
}

// Put stores records in a single write transaction. All records are
// validated first, so a bad record fails the whole batch before any write.
func (s *Store) Put(ctx context.Context, records ...*core.VectorRecord) error {
	if s.db.IsClosed() {
		return storage.ErrStoreClosed
	}

	encoded := make(map[string][]byte, len(records))
	for _, rec := range records {
		if len(rec.Embedding) != core.EmbeddingDim {
			return fmt.Errorf("%w: record %s has %d dimensions", core.ErrDimensionMismatch, rec.Key, len(rec.Embedding))
		}
		if err := rec.Metadata.Validate(); err != nil {
			return fmt.Errorf("record %s: %w", rec.Key, err)
		}
		data, err := json.Marshal(storedRecord{
			Key:       rec.Key,
			Embedding: rec.Embedding,
			Fields:    rec.Metadata.ToFields(),
		})
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.Key, err)
		}
		encoded[rec.Key] = data
	}

	err := s.db.Update(func(tx *badger.Txn) error {
		for key, data := range encoded {
			if err := tx.Set([]byte(recordPrefix+key), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %d records: %w", len(records), err)
	}

	s.logger.Debug("stored records", "count", len(records))
	return nil
}

// Query scans every record, keeps those matching the filter, and returns the
// TopK nearest by L2 distance.
func (s *Store) Query(ctx context.Context, params storage.QueryParams) ([]storage.Match, error) {
	if s.db.IsClosed() {
		return nil, storage.ErrStoreClosed
	}
	if len(params.Vector) != core.EmbeddingDim {
		return nil, fmt.Errorf("%w: query vector has %d dimensions", storage.ErrBadQuery, len(params.Vector))
	}
	if params.TopK <= 0 {
		return nil, fmt.Errorf("%w: TopK must be positive", storage.ErrBadQuery)
	}

	var matches []storage.Match

	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var stored storedRecord
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			})
			if err != nil {
				return err
			}

			if !matchesFilter(stored.Fields, params.Filter) {
				continue
			}

			md, err := core.MetadataFromFields(stored.Fields)
			if err != nil {
				s.logger.Warn("skipping record with bad metadata", "key", stored.Key, "err", err)
				continue
			}

			matches = append(matches, storage.Match{
				Record: &core.VectorRecord{
					Key:       stored.Key,
					Embedding: stored.Embedding,
					Metadata:  md,
				},
				Distance: l2Distance(params.Vector, stored.Embedding),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > params.TopK {
		matches = matches[:params.TopK]
	}
	return matches, nil
}

// Close closes the underlying BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// matchesFilter reports whether every filter entry equals the corresponding
// stored field. A record missing a filtered key does not match.
func matchesFilter(fields map[string]any, filter storage.Filter) bool {
	for key, want := range filter {
		got, ok := fields[key].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func l2Distance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
