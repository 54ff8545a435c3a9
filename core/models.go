package core

import (
	"encoding/hex"
	"fmt"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// EmbeddingDim is the fixed dimensionality of every embedding vector in the
// system. The vector index is provisioned with this dimension and the stores
// reject records that do not match it.
const EmbeddingDim = 1024

// HashContent computes a stable hex-encoded BLAKE2b digest of text content.
// Identical content always produces the same hash, which is what the
// deduplicator keys its nearest-neighbor lookups on.
func HashContent(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// NewKey generates a fresh globally unique record key.
func NewKey() string {
	return uuid.NewString()
}

// VectorRecord is the persisted unit of the index: a unique key, a fixed-length
// embedding, and the metadata describing the embedded chunk.
type VectorRecord struct {
	Key       string
	Embedding []float32
	Metadata  *VectorMetadata
}

// NewVectorRecord builds a record with a freshly generated key.
// The embedding must match EmbeddingDim and the metadata must be valid.
func NewVectorRecord(embedding []float32, metadata *VectorMetadata) (*VectorRecord, error) {
	if len(embedding) != EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), EmbeddingDim)
	}
	if metadata == nil {
		return nil, fmt.Errorf("%w: metadata is nil", ErrInvalidMetadata)
	}
	if err := metadata.Validate(); err != nil {
		return nil, err
	}
	return &VectorRecord{
		Key:       NewKey(),
		Embedding: embedding,
		Metadata:  metadata,
	}, nil
}

// ScoredChunk is a retrieved record annotated with its vector-search distance
// and, after reranking, a relevance score in [0,10]. It lives for the duration
// of a single query and is discarded after answer synthesis.
type ScoredChunk struct {
	Record      *VectorRecord
	Distance    float32
	RerankScore float64
}
