package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/regsentry/directive-rag/models"
)

// Deterministic test doubles for the provider and store boundaries, so the
// pipeline properties can be exercised without network access.

type fakeEmbedder struct {
	dim     int
	err     error
	batches [][]string
}

var _ Embedder = (*fakeEmbedder)(nil)

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	recorded := make([]string, len(texts))
	copy(recorded, texts)
	f.batches = append(f.batches, recorded)
	if f.err != nil {
		return nil, f.err
	}
	dim := f.dim
	if dim == 0 {
		dim = 4
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = float32(len(text)%7) + float32(j)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

type fakeGenerator struct {
	answer  string
	err     error
	systems []string
	users   []string
}

var _ Generator = (*fakeGenerator)(nil)

func (f *fakeGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if f.err != nil {
		return "", f.err
	}
	if f.answer != "" {
		return f.answer, nil
	}
	return "No relevant information was found in the provided directives.", nil
}

type fakeStore struct {
	openErr   error
	queryHits []RawHit
	queryErr  error
	sample    []map[string]interface{}
	count     int

	recreated    bool
	inserted     []models.ChunkRecord
	insertedVecs [][]float32
	queryTopK    int
	queryFilter  string
}

var _ VectorStore = (*fakeStore)(nil)

func (f *fakeStore) Open(ctx context.Context) error {
	return f.openErr
}

func (f *fakeStore) Recreate(ctx context.Context, description string) error {
	f.recreated = true
	return nil
}

func (f *fakeStore) Insert(ctx context.Context, records []models.ChunkRecord, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return errors.New("records and vectors length mismatch")
	}
	f.inserted = append(f.inserted, records...)
	f.insertedVecs = append(f.insertedVecs, vectors...)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, vector []float32, topK int, documentName string) ([]RawHit, error) {
	f.queryTopK = topK
	f.queryFilter = documentName
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryHits, nil
}

func (f *fakeStore) Sample(ctx context.Context, limit int) ([]map[string]interface{}, error) {
	if limit < len(f.sample) {
		return f.sample[:limit], nil
	}
	return f.sample, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return f.count, nil
}

type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

var _ TextExtractor = (*fakeExtractor)(nil)

func (f *fakeExtractor) Extract(path string) (string, int, error) {
	if err, ok := f.errs[path]; ok {
		return "", 0, err
	}
	text, ok := f.texts[path]
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	return text, 1, nil
}

func chunkMeta(docID, name, docType string, index int) map[string]interface{} {
	return map[string]interface{}{
		"document_id":   docID,
		"document_name": name,
		"document_type": docType,
		"chunk_index":   float64(index),
		"source_file":   docID + ".pdf",
	}
}
