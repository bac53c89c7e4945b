package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/regsentry/directive-rag/config"
	"github.com/regsentry/directive-rag/models"
)

// AllDocuments is the document-filter sentinel meaning "no filter".
const AllDocuments = "All Documents"

// RAGService is the query-time pipeline over a populated collection:
// similarity search with optional document filtering, and grounded answer
// synthesis with source citations. All methods are read-only and safe for
// concurrent callers once LoadIndex has succeeded.
type RAGService interface {
	LoadIndex(ctx context.Context) error
	Search(ctx context.Context, query string, topK int, documentFilter string) ([]models.SearchResult, error)
	GenerateResponse(ctx context.Context, query string, topK int, documentFilter string) (*models.GenerateResult, error)
	Stats(ctx context.Context) (*models.StatsResponse, error)
	DocumentNames() []string
}

// ragServiceImpl holds the collaborators the pipeline needs.
type ragServiceImpl struct {
	embedder  Embedder
	generator Generator
	store     VectorStore
	registry  *DocumentRegistry
	cfg       *config.AppConfig
	loaded    bool
}

// NewRAGService creates a new RAG service instance. Call LoadIndex before
// using the query methods.
func NewRAGService(embedder Embedder, generator Generator, store VectorStore, registry *DocumentRegistry, cfg *config.AppConfig) RAGService {
	return &ragServiceImpl{
		embedder:  embedder,
		generator: generator,
		store:     store,
		registry:  registry,
		cfg:       cfg,
	}
}

// LoadIndex binds to the existing collection and reconstructs the document
// registry from a bounded metadata sample. A missing collection surfaces
// as ErrIndexNotBuilt so the operator knows to run the indexer, not retry.
func (r *ragServiceImpl) LoadIndex(ctx context.Context) error {
	if err := r.store.Open(ctx); err != nil {
		return err
	}

	count, err := r.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect collection: %w", err)
	}
	log.Printf("SERVICE: Collection loaded: %d chunks", count)

	metadatas, err := r.store.Sample(ctx, SampleLimit)
	if err != nil {
		return fmt.Errorf("failed to sample collection metadata: %w", err)
	}
	r.registry.RebuildFromSample(metadatas)
	if count > SampleLimit {
		log.Printf("SERVICE: Collection exceeds sample cap (%d > %d); per-document chunk counts are approximate", count, SampleLimit)
	}
	log.Printf("SERVICE: Loaded %d documents", r.registry.Len())

	r.loaded = true
	return nil
}

// Search embeds the query, runs a filtered nearest-neighbor query, and
// normalizes raw distances into similarity scores.
//
// Normalization is relative to the maximum distance within this result
// set: sim = 1 - d/maxD, or 1.0 for every result when maxD is zero. Scores
// from different queries are not comparable. The store's result order is
// preserved, including ties.
func (r *ragServiceImpl) Search(ctx context.Context, query string, topK int, documentFilter string) ([]models.SearchResult, error) {
	if !r.loaded {
		return nil, ErrIndexNotBuilt
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	filter := ""
	if documentFilter != "" && documentFilter != AllDocuments {
		filter = documentFilter
	}

	hits, err := r.store.Query(ctx, queryVector, topK, filter)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	maxDist := 0.0
	for _, hit := range hits {
		if hit.Distance > maxDist {
			maxDist = hit.Distance
		}
	}

	results := make([]models.SearchResult, len(hits))
	for i, hit := range hits {
		score := 1.0
		if maxDist > 0 {
			score = 1.0 - hit.Distance/maxDist
		}
		results[i] = models.SearchResult{
			Text:     hit.Text,
			Score:    score,
			Metadata: hit.Metadata,
		}
	}
	return results, nil
}

// GenerateResponse runs retrieval, assembles the grounded prompt, and asks
// the generation provider for a single completion. An empty retrieval set
// still synthesizes: the system instruction requires the model to state
// explicitly that nothing relevant was found. Provider failures propagate;
// no local answer is fabricated.
func (r *ragServiceImpl) GenerateResponse(ctx context.Context, query string, topK int, documentFilter string) (*models.GenerateResult, error) {
	results, err := r.Search(ctx, query, topK, documentFilter)
	if err != nil {
		return nil, err
	}

	contextParts := make([]string, 0, len(results))
	sources := make([]models.Source, 0, len(results))
	for i, res := range results {
		docName := metadataString(res.Metadata, "document_name")
		contextParts = append(contextParts, fmt.Sprintf("[Source %d - %s] (Relevance: %.2f):\n%s", i+1, docName, res.Score, res.Text))
		sources = append(sources, models.Source{
			Chunk:     res.Text,
			Relevance: res.Score,
			Document:  docName,
			Type:      metadataString(res.Metadata, "document_type"),
		})
	}
	contextText := strings.Join(contextParts, "\n\n")

	userMessage := fmt.Sprintf(`Context from AER Directives:

%s

Question: %s

Provide a clear, professional answer based on the context above. Include relevant directive citations.`, contextText, query)

	answer, err := r.generator.Complete(ctx, GetSystemPrompt(), userMessage)
	if err != nil {
		return nil, err
	}

	return &models.GenerateResult{
		Answer:  answer,
		Sources: sources,
		Context: contextText,
	}, nil
}

// Stats implements RAGService.
func (r *ragServiceImpl) Stats(ctx context.Context) (*models.StatsResponse, error) {
	if !r.loaded {
		return nil, ErrIndexNotBuilt
	}
	totalChunks, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collection: %w", err)
	}
	return &models.StatsResponse{
		TotalChunks:       totalChunks,
		TotalDocuments:    r.registry.Len(),
		Documents:         r.registry.List(),
		Collection:        r.cfg.Collection,
		EmbeddingModel:    r.cfg.Embedding.Model,
		ChatModel:         r.cfg.Generation.Model,
		CountsApproximate: totalChunks > SampleLimit,
	}, nil
}

// DocumentNames implements RAGService.
func (r *ragServiceImpl) DocumentNames() []string {
	return r.registry.Names()
}

func metadataString(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok && v != "" {
		return v
	}
	return "Unknown"
}
