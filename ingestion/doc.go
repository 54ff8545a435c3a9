// Package ingestion provides the pipeline that turns raw text into stored vectors.
//
// The Pipeline type manages the ingestion workflow:
//   - normalizing and chunking the input text
//   - embedding each chunk, throttled to protect the embedding backend
//   - dropping chunks whose content is already stored for the same scope
//   - writing the surviving records in one batch
//
// Per-chunk embedding failures are logged and skipped so one bad chunk does
// not fail the document; a failed batch write is reported to the caller.
package ingestion
