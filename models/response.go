package models

// QueryResponse wraps a GenerateResult with a server-assigned id so a
// specific answer can be referenced in audit logs.
type QueryResponse struct {
	QueryID string   `json:"query_id"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
	Context string   `json:"context,omitempty"`
}

// DocumentListResponse is the catalogue returned for filter dropdowns.
// Names always starts with the "All Documents" sentinel.
type DocumentListResponse struct {
	Names []string `json:"names"`
}

// StatsResponse summarizes the loaded index.
//
// CountsApproximate is true when the collection holds more entries than the
// registry's reload sample cap; per-document chunk counts are then a lower
// bound, not exact totals.
type StatsResponse struct {
	TotalChunks       int        `json:"total_chunks"`
	TotalDocuments    int        `json:"total_documents"`
	Documents         []Document `json:"documents"`
	Collection        string     `json:"collection"`
	EmbeddingModel    string     `json:"embedding_model"`
	ChatModel         string     `json:"chat_model"`
	CountsApproximate bool       `json:"counts_approximate"`
}
