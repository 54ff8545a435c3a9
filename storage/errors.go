package storage

import "errors"

var (
	// ErrStoreClosed indicates an operation on a closed store.
	ErrStoreClosed = errors.New("vector store is closed")

	// ErrBadQuery indicates query parameters that cannot be executed.
	ErrBadQuery = errors.New("invalid query parameters")
)
