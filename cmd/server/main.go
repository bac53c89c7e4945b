package main

import (
	"context"
	"errors"
	"log"
	"os"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/regsentry/directive-rag/config"
	"github.com/regsentry/directive-rag/controller"
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

	apiKey := os.Getenv(cfg.Embedding.APIKeyEnv)
	if apiKey == "" {
		log.Fatalf("FATAL: %s is not set; the embedding provider requires it.", cfg.Embedding.APIKeyEnv)
	}
	embedder := services.NewOpenAIEmbedder(cfg.Embedding, apiKey)

	ctx := context.Background()
	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create Gemini client: %v. Make sure GEMINI_API_KEY is set.", err)
	}
	log.Println("Successfully connected to Google Gemini.")
	generator := services.NewGeminiGenerator(geminiClient, cfg.Generation)

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
	ragService := services.NewRAGService(embedder, generator, store, registry, cfg)

	if err := ragService.LoadIndex(ctx); err != nil {
		if errors.Is(err, services.ErrIndexNotBuilt) {
			log.Fatalf("FATAL: %v", err)
		}
		log.Fatalf("FATAL: Failed to load index: %v", err)
	}

	ragController := controller.NewRAGController(ragService, cfg.TopK)

	router := gin.Default()

	// CORS for local UI development
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Directive RAG API",
			"version": "1.0.0",
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/query", ragController.Query)
		apiV1.GET("/documents", ragController.Documents)
		apiV1.GET("/stats", ragController.Stats)
	}

	log.Printf("Directive RAG server starting on http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}
