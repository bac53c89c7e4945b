package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regsentry/directive-rag/config"
)

func testChunking() config.ChunkingConfig {
	return config.ChunkingConfig{Size: 500, Overlap: 100}
}

func TestBuildIndex_PopulatesStoreAndRegistry(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"docs/directive_001.pdf": strings.Repeat("Liability must be assessed before transfer. ", 30),
		"docs/directive_017.pdf": strings.Repeat("Gas volumes must be measured at each point. ", 30),
	}}
	store := &fakeStore{}
	registry := NewDocumentRegistry()
	builder := NewIndexBuilder(extractor, &fakeEmbedder{}, store, registry, testChunking())

	specs := []config.DocumentSpec{
		{Path: "docs/directive_001.pdf", Name: "Directive 001", Type: "Site-Specific Liability"},
		{Path: "docs/directive_017.pdf", Name: "Directive 017", Type: "Measurement Requirements"},
	}
	require.NoError(t, builder.BuildIndex(context.Background(), specs))

	assert.True(t, store.recreated)
	require.NotEmpty(t, store.inserted)
	assert.Len(t, store.insertedVecs, len(store.inserted))

	// Records keep document order and carry full metadata with
	// intra-document chunk indexes starting at zero.
	first := store.inserted[0]
	assert.Equal(t, "directive_001", first.Metadata.DocumentID)
	assert.Equal(t, "Directive 001", first.Metadata.DocumentName)
	assert.Equal(t, "Site-Specific Liability", first.Metadata.DocumentType)
	assert.Equal(t, 0, first.Metadata.ChunkIndex)
	assert.Equal(t, "docs/directive_001.pdf", first.Metadata.SourceFile)

	lastIndex := -1
	sawSecondDoc := false
	for _, rec := range store.inserted {
		switch rec.Metadata.DocumentID {
		case "directive_001":
			assert.False(t, sawSecondDoc, "documents must not interleave")
			lastIndex++
			assert.Equal(t, lastIndex, rec.Metadata.ChunkIndex)
		case "directive_017":
			sawSecondDoc = true
		default:
			t.Fatalf("unexpected document id %q", rec.Metadata.DocumentID)
		}
	}
	assert.True(t, sawSecondDoc)

	require.Equal(t, 2, registry.Len())
	docs := registry.List()
	assert.Equal(t, "Directive 001", docs[0].Name)
	assert.Greater(t, docs[0].Chunks, 0)
}

func TestBuildIndex_MissingSourceAbortsBeforeStoreMutation(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"docs/directive_001.pdf": "Some text. More text.",
	}}
	store := &fakeStore{}
	builder := NewIndexBuilder(extractor, &fakeEmbedder{}, store, NewDocumentRegistry(), testChunking())

	specs := []config.DocumentSpec{
		{Path: "docs/directive_001.pdf", Name: "Directive 001", Type: "Compliance"},
		{Path: "docs/missing.pdf", Name: "Missing", Type: "Compliance"},
	}
	err := builder.BuildIndex(context.Background(), specs)

	require.ErrorIs(t, err, ErrSourceNotFound)
	assert.False(t, store.recreated, "a failed run must leave the prior collection untouched")
	assert.Empty(t, store.inserted)
}

func TestBuildIndex_EmbeddingFailureAbortsBeforeStoreMutation(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"docs/directive_001.pdf": strings.Repeat("Flaring requires notice. ", 40),
	}}
	store := &fakeStore{}
	embedder := &fakeEmbedder{err: &ProviderError{Op: "embed", Err: errors.New("boom")}}
	builder := NewIndexBuilder(extractor, embedder, store, NewDocumentRegistry(), testChunking())

	specs := []config.DocumentSpec{{Path: "docs/directive_001.pdf", Name: "Directive 001", Type: "Compliance"}}
	err := builder.BuildIndex(context.Background(), specs)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, store.recreated)
	assert.Empty(t, store.inserted)
}

func TestBuildIndex_ZeroChunkDocumentContributesNothing(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"docs/blank.pdf":         "   \n\n   ",
		"docs/directive_017.pdf": "Measurement points require calibration.",
	}}
	store := &fakeStore{}
	registry := NewDocumentRegistry()
	builder := NewIndexBuilder(extractor, &fakeEmbedder{}, store, registry, testChunking())

	specs := []config.DocumentSpec{
		{Path: "docs/blank.pdf", Name: "Blank", Type: "Misc"},
		{Path: "docs/directive_017.pdf", Name: "Directive 017", Type: "Measurement Requirements"},
	}
	require.NoError(t, builder.BuildIndex(context.Background(), specs))

	for _, rec := range store.inserted {
		assert.NotEqual(t, "blank", rec.Metadata.DocumentID)
	}

	// The blank document is still registered, with zero chunks.
	assert.Equal(t, 2, registry.Len())
	for _, doc := range registry.List() {
		if doc.Name == "Blank" {
			assert.Equal(t, 0, doc.Chunks)
		}
	}
}

func TestDocumentID_StableFilenameStem(t *testing.T) {
	assert.Equal(t, "directive_001", documentID("docs/directive_001.pdf"))
	assert.Equal(t, "directive_001", documentID("/elsewhere/directive_001.pdf"))
	assert.Equal(t, "directive_060", documentID("directive_060.pdf"))
}
