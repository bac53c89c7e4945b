package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/regsentry/directive-rag/config"
	"github.com/regsentry/directive-rag/models"
)

// IndexBuilder runs the offline ingestion pass: extract each PDF, chunk
// it, embed every chunk, and replace the collection wholesale. It is a
// one-shot batch job and is not safe to run concurrently against the same
// collection.
type IndexBuilder struct {
	extractor TextExtractor
	embedder  Embedder
	store     VectorStore
	registry  *DocumentRegistry
	chunking  config.ChunkingConfig
}

func NewIndexBuilder(extractor TextExtractor, embedder Embedder, store VectorStore, registry *DocumentRegistry, chunking config.ChunkingConfig) *IndexBuilder {
	return &IndexBuilder{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		registry:  registry,
		chunking:  chunking,
	}
}

// BuildIndex ingests every document in specs into one fresh collection.
//
// The full entry list and all embeddings are produced in memory before the
// store is touched, so any failure up to that point leaves a previously
// built collection unchanged. A missing PDF or a failed embedding batch
// aborts the whole run; no partial index is ever committed.
func (b *IndexBuilder) BuildIndex(ctx context.Context, specs []config.DocumentSpec) error {
	var records []models.ChunkRecord

	for _, spec := range specs {
		log.Printf("INDEXER: Processing %q (%s)", spec.Name, spec.Type)

		text, pages, err := b.extractor.Extract(spec.Path)
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", spec.Path, err)
		}
		log.Printf("INDEXER: Extracted %d characters from %d pages", len(text), pages)

		chunks := SplitText(text, b.chunking.Size, b.chunking.Overlap)
		log.Printf("INDEXER: Split %q into %d chunks (size=%d, overlap=%d)", spec.Name, len(chunks), b.chunking.Size, b.chunking.Overlap)

		docID := documentID(spec.Path)
		b.registry.Add(models.Document{
			ID:         docID,
			Name:       spec.Name,
			Type:       spec.Type,
			SourceFile: spec.Path,
			Chunks:     len(chunks),
		})

		for i, chunk := range chunks {
			records = append(records, models.ChunkRecord{
				Text: chunk,
				Metadata: models.ChunkMetadata{
					DocumentID:   docID,
					DocumentName: spec.Name,
					DocumentType: spec.Type,
					ChunkIndex:   i,
					SourceFile:   spec.Path,
				},
			})
		}
	}

	log.Printf("INDEXER: Total chunks across all documents: %d", len(records))

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}
	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	// Everything needed for the new index now exists in memory; only from
	// here on is the prior collection at risk.
	if err := b.store.Recreate(ctx, "AER Directives multi-document index"); err != nil {
		return err
	}
	if err := b.store.Insert(ctx, records, vectors); err != nil {
		return err
	}

	log.Printf("INDEXER: Index build complete: %d documents, %d chunks", b.registry.Len(), len(records))
	return nil
}

// documentID derives a stable identifier from the source filename stem, so
// rebuilds of the same corpus produce the same ids.
func documentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
