package services

import (
	"context"

	"github.com/regsentry/directive-rag/models"
)

// RawHit is one nearest-neighbor result as the store returns it: the chunk
// text, the store's raw distance (smaller is closer), and the persisted
// metadata. Distance normalization happens in the retrieval layer.
type RawHit struct {
	Text     string
	Distance float64
	Metadata map[string]interface{}
}

// VectorStore persists (vector, text, metadata) entries for one named
// collection and answers filtered nearest-neighbor queries over them.
//
// Recreate and Insert are only used by the one-shot ingestion path; the
// query path is read-only and safe for concurrent callers.
type VectorStore interface {
	// Open binds to the existing collection. If the collection does not
	// exist, it returns ErrIndexNotBuilt.
	Open(ctx context.Context) error

	// Recreate drops the collection if present and creates it fresh with
	// the given description. The delete is idempotent.
	Recreate(ctx context.Context, description string) error

	// Insert bulk-adds records with their vectors. Records and vectors
	// must have equal length and all vectors one dimension; ids are
	// assigned sequentially by the caller's ordering.
	Insert(ctx context.Context, records []models.ChunkRecord, vectors [][]float32) error

	// Query returns up to topK nearest entries to vector, in the store's
	// native order. A non-empty documentName restricts results to entries
	// whose document_name metadata equals it exactly.
	Query(ctx context.Context, vector []float32, topK int, documentName string) ([]RawHit, error)

	// Sample returns the metadata of up to limit stored entries, used to
	// reconstruct the document registry on reload.
	Sample(ctx context.Context, limit int) ([]map[string]interface{}, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
