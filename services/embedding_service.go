package services

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/regsentry/directive-rag/config"
)

// Embedder turns text into fixed-dimension vectors. Implementations must
// return one vector per input, index-aligned, and every vector produced
// over the lifetime of a collection must share a single dimension.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint. The base
// URL is configurable so a local Ollama /v1 endpoint works as well.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	batchSize int
	dimension int
}

func NewOpenAIEmbedder(cfg config.EmbeddingConfig, apiKey string) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		batchSize: batchSize,
	}
}

// EmbedBatch embeds texts in provider-sized batches and returns vectors
// index-aligned with the input. The first vector fixes the dimension; any
// later mismatch is rejected rather than silently stored.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.model),
			Input: batch,
		})
		if err != nil {
			return nil, &ProviderError{Op: "embed", Err: err}
		}
		if len(resp.Data) != len(batch) {
			return nil, &ProviderError{Op: "embed", Err: fmt.Errorf("expected %d embeddings, got %d", len(batch), len(resp.Data))}
		}

		for _, item := range resp.Data {
			vec := make([]float32, len(item.Embedding))
			copy(vec, item.Embedding)
			if e.dimension == 0 {
				e.dimension = len(vec)
			} else if len(vec) != e.dimension {
				return nil, fmt.Errorf("embedding dimension changed from %d to %d: rebuild the index with one model", e.dimension, len(vec))
			}
			vectors = append(vectors, vec)
		}
	}
	return vectors, nil
}

// EmbedQuery embeds a single query text as a one-item batch.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
