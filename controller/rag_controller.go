package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/regsentry/directive-rag/models"
	"github.com/regsentry/directive-rag/services"
)

// RAGController handles the HTTP requests for the query path. It depends
// on the RAGService to perform the actual retrieval and synthesis.
type RAGController struct {
	ragService  services.RAGService
	defaultTopK int
}

// NewRAGController is called from main to inject the service dependency.
func NewRAGController(service services.RAGService, defaultTopK int) *RAGController {
	return &RAGController{
		ragService:  service,
		defaultTopK: defaultTopK,
	}
}

// Query is the Gin handler for POST /api/v1/query. It runs the full
// pipeline and maps the service error taxonomy onto HTTP statuses.
func (c *RAGController) Query(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = c.defaultTopK
	}

	result, err := c.ragService.GenerateResponse(ctx.Request.Context(), req.Query, topK, req.DocumentFilter)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.QueryResponse{
		QueryID: uuid.New().String(),
		Answer:  result.Answer,
		Sources: result.Sources,
		Context: result.Context,
	})
}

// Documents is the Gin handler for GET /api/v1/documents. It returns the
// filter choices, starting with the "All Documents" sentinel.
func (c *RAGController) Documents(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.DocumentListResponse{
		Names: c.ragService.DocumentNames(),
	})
}

// Stats is the Gin handler for GET /api/v1/stats.
func (c *RAGController) Stats(ctx *gin.Context) {
	stats, err := c.ragService.Stats(ctx.Request.Context())
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// writeError distinguishes the operator's problems from the user's: a
// missing index needs the indexer run, a provider failure is retryable.
func (c *RAGController) writeError(ctx *gin.Context, err error) {
	var provErr *services.ProviderError
	switch {
	case errors.Is(err, services.ErrIndexNotBuilt):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrIndexNotBuilt.Error()})
	case errors.As(err, &provErr):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Error processing query. Please try rephrasing your question."})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate response"})
	}
}
