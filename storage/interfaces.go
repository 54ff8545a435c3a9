package storage

import (
	"context"

	"github.com/poiesic/groundit/core"
)

// Filter selects records by exact metadata field equality. All entries must
// match; an empty filter matches everything.
type Filter map[string]string

// QueryParams describes a single vector store query.
type QueryParams struct {
	// Vector is the query embedding. Must be core.EmbeddingDim long.
	Vector []float32

	// TopK is the maximum number of matches to return.
	TopK int

	// Filter restricts candidates before the similarity search.
	Filter Filter
}

// Match is a single query result: the stored record and its L2 distance from
// the query vector. Smaller distance means more similar.
type Match struct {
	Record   *core.VectorRecord
	Distance float32
}

// VectorStore persists embedding records and answers filtered
// nearest-neighbor queries. Implementations must be thread-safe.
type VectorStore interface {
	// Put stores the given records. Keys are unique; writing an existing key
	// overwrites the record. Put is atomic per call where the backend allows
	// it, and reports how many records were attempted when it fails.
	Put(ctx context.Context, records ...*core.VectorRecord) error

	// Query returns up to TopK records nearest to the query vector among
	// those matching the filter, ordered nearest first.
	Query(ctx context.Context, params QueryParams) ([]Match, error)

	// Close releases the backend and its resources.
	Close() error
}
