package ingestion

import "errors"

var (
	// ErrStoreRequired indicates a nil vector store was passed to NewPipeline.
	ErrStoreRequired = errors.New("ingestion: vector store is required")

	// ErrEmbedderRequired indicates a nil embedder was passed to NewPipeline.
	ErrEmbedderRequired = errors.New("ingestion: embedder is required")

	// ErrEmptyInput indicates the input text was empty after normalization.
	ErrEmptyInput = errors.New("ingestion: input text is empty")
)
