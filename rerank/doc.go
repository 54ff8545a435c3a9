// Package rerank scores retrieved chunks for relevance to a question.
//
// The Reranker asks a judge model to rate each candidate chunk from 0 to 10,
// running the candidates through a bounded worker pool so a wide retrieval
// does not serialize into a long chain of model calls. Rate-limited calls
// are retried with jittered exponential backoff; a chunk whose score cannot
// be obtained or parsed scores 0 and is filtered out by the relevance floor.
package rerank
