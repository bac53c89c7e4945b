package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/regsentry/directive-rag/models"
)

// ChromaStore implements VectorStore against a ChromaDB server using the
// v2 API. One store instance is bound to one collection name.
type ChromaStore struct {
	client     chromago.Client
	name       string
	collection chromago.Collection
}

func NewChromaStore(client chromago.Client, collectionName string) *ChromaStore {
	return &ChromaStore{
		client: client,
		name:   collectionName,
	}
}

// Open implements VectorStore. A missing collection means no ingestion has
// ever succeeded, which is surfaced as ErrIndexNotBuilt rather than a raw
// client error so the operator knows to run the indexer.
func (s *ChromaStore) Open(ctx context.Context) error {
	collection, err := s.client.GetCollection(ctx, s.name)
	if err != nil {
		return fmt.Errorf("%w (collection %q: %v)", ErrIndexNotBuilt, s.name, err)
	}
	s.collection = collection
	return nil
}

// Recreate implements VectorStore.
func (s *ChromaStore) Recreate(ctx context.Context, description string) error {
	if err := s.client.DeleteCollection(ctx, s.name); err != nil {
		// Deleting a collection that does not exist is a no-op.
		log.Printf("STORE: no existing collection %q to delete: %v", s.name, err)
	} else {
		log.Printf("STORE: deleted existing collection %q", s.name)
	}

	collection, err := s.client.CreateCollection(ctx, s.name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", description),
			),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", s.name, err)
	}
	s.collection = collection
	log.Printf("STORE: created new collection %q", s.name)
	return nil
}

// Insert implements VectorStore. Entry ids are sequential ("chunk_0",
// "chunk_1", ...) and regenerated wholesale on every rebuild.
func (s *ChromaStore) Insert(ctx context.Context, records []models.ChunkRecord, vectors [][]float32) error {
	if s.collection == nil {
		return ErrIndexNotBuilt
	}
	if len(records) != len(vectors) {
		return fmt.Errorf("records and vectors length mismatch: %d vs %d", len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil
	}
	dim := len(vectors[0])

	ids := make([]chromago.DocumentID, len(records))
	texts := make([]string, len(records))
	embs := make([]embeddings.Embedding, len(records))
	metas := make([]chromago.DocumentMetadata, len(records))

	for i, rec := range records {
		if len(vectors[i]) != dim {
			return fmt.Errorf("embedding dimension mismatch at entry %d: %d vs %d", i, len(vectors[i]), dim)
		}
		ids[i] = chromago.DocumentID(fmt.Sprintf("chunk_%d", i))
		texts[i] = rec.Text
		embs[i] = embeddings.NewEmbeddingFromFloat32(vectors[i])
		metas[i] = chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("document_id", rec.Metadata.DocumentID),
			chromago.NewStringAttribute("document_name", rec.Metadata.DocumentName),
			chromago.NewStringAttribute("document_type", rec.Metadata.DocumentType),
			chromago.NewIntAttribute("chunk_index", int64(rec.Metadata.ChunkIndex)),
			chromago.NewStringAttribute("source_file", rec.Metadata.SourceFile),
		)
	}

	err := s.collection.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("failed to add records to chromadb: %w", err)
	}
	return nil
}

// Query implements VectorStore. The document filter is passed through to
// the store's native where-clause, not applied client-side.
func (s *ChromaStore) Query(ctx context.Context, vector []float32, topK int, documentName string) ([]RawHit, error) {
	if s.collection == nil {
		return nil, ErrIndexNotBuilt
	}

	opts := []chromago.CollectionQueryOption{
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(topK),
	}
	if documentName != "" {
		opts = append(opts, chromago.WithWhereQuery(chromago.EqString("document_name", documentName)))
	}

	results, err := s.collection.Query(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()
	if len(documentGroups) == 0 {
		return nil, nil
	}

	hits := make([]RawHit, 0, len(documentGroups[0]))
	for i, doc := range documentGroups[0] {
		hit := RawHit{Text: doc.ContentString()}
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			hit.Distance = float64(distanceGroups[0][i])
		}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			hit.Metadata = metadataToMap(metadataGroups[0][i])
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Sample implements VectorStore.
func (s *ChromaStore) Sample(ctx context.Context, limit int) ([]map[string]interface{}, error) {
	if s.collection == nil {
		return nil, ErrIndexNotBuilt
	}
	results, err := s.collection.Get(ctx, chromago.WithLimitGet(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get entries from chromadb: %w", err)
	}
	metadatas := results.GetMetadatas()
	out := make([]map[string]interface{}, 0, len(metadatas))
	for _, meta := range metadatas {
		out = append(out, metadataToMap(meta))
	}
	return out, nil
}

// Count implements VectorStore.
func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	if s.collection == nil {
		return 0, ErrIndexNotBuilt
	}
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// metadataToMap converts a chroma DocumentMetadata into a plain map. The
// struct exposes no public value accessor, so it goes through a JSON
// marshal/unmarshal roundtrip.
func metadataToMap(meta chromago.DocumentMetadata) map[string]interface{} {
	if meta == nil {
		return map[string]interface{}{}
	}
	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		log.Printf("WARN: could not marshal metadata: %v", err)
		return map[string]interface{}{}
	}
	var metadataMap map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &metadataMap); err != nil {
		log.Printf("WARN: could not unmarshal metadata: %v", err)
		return map[string]interface{}{}
	}
	return metadataMap
}
