package services

import (
	"errors"
	"fmt"
)

// ErrIndexNotBuilt is returned when the query path runs before any
// successful ingestion: the collection is missing or was never loaded.
// The remedy is operational (run the indexer), not a retry.
var ErrIndexNotBuilt = errors.New("index not built: run the indexer to ingest documents first")

// ErrSourceNotFound is returned when an ingestion manifest names a PDF that
// does not exist on disk. Ingestion is all-or-nothing, so this aborts the
// whole run before the store is touched.
var ErrSourceNotFound = errors.New("source document not found")

// ProviderError wraps a failed call to the embedding or generation
// provider. Query-time occurrences are retryable from the caller's point of
// view; ingestion-time occurrences abort the run.
type ProviderError struct {
	Op  string // "embed" or "generate"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider call failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
