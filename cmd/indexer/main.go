// The indexer is the offline ingestion job: it reads the document manifest
// from config.yaml, extracts and chunks every PDF, embeds the chunks, and
// replaces the vector store collection wholesale. Run it once before
// starting the server, and again whenever the corpus changes.
package main

import (
	"context"
	"log"
	"os"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/joho/godotenv"

	"github.com/regsentry/directive-rag/config"
	"github.com/regsentry/directive-rag/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("FATAL: Failed to load config: %v", err)
	}
	if len(cfg.Documents) == 0 {
		log.Fatalf("FATAL: No documents listed in config.yaml; nothing to index.")
	}

	// Verify every source exists before any extraction work starts.
	for _, doc := range cfg.Documents {
		if _, err := os.Stat(doc.Path); err != nil {
			log.Fatalf("FATAL: %s not found. Download the directive PDF first.", doc.Path)
		}
	}

	apiKey := os.Getenv(cfg.Embedding.APIKeyEnv)
	if apiKey == "" {
		log.Fatalf("FATAL: %s is not set; the embedding provider requires it.", cfg.Embedding.APIKeyEnv)
	}
	embedder := services.NewOpenAIEmbedder(cfg.Embedding, apiKey)

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		log.Fatalf("FATAL: Failed to create chroma client: %v", err)
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			log.Printf("Warning: Failed to close chroma client: %v", err)
		}
	}()

	store := services.NewChromaStore(chromaClient, cfg.Collection)
	registry := services.NewDocumentRegistry()
	builder := services.NewIndexBuilder(services.NewPDFExtractor(), embedder, store, registry, cfg.Chunking)

	if err := builder.BuildIndex(context.Background(), cfg.Documents); err != nil {
		log.Fatalf("FATAL: Index build failed: %v", err)
	}

	log.Println("INDEXER: Document breakdown:")
	for _, doc := range registry.List() {
		log.Printf("INDEXER:   - %s: %d chunks (%s)", doc.Name, doc.Chunks, doc.Type)
	}
	log.Println("INDEXER: System ready. Start the server to answer queries.")
}
