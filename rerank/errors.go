package rerank

import "errors"

var (
	// ErrJudgeRequired indicates a nil judge was passed to NewReranker.
	ErrJudgeRequired = errors.New("rerank: judge completer is required")

	// ErrInvalidMaxAttempts indicates a non-positive retry budget.
	ErrInvalidMaxAttempts = errors.New("rerank: max attempts must be positive")
)
