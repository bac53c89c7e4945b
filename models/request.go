package models

// QueryRequest is the body of POST /api/v1/query. TopK and DocumentFilter
// are optional; the server applies its configured defaults.
type QueryRequest struct {
	Query          string `json:"query" binding:"required"`
	TopK           int    `json:"top_k,omitempty"`
	DocumentFilter string `json:"document_filter,omitempty"`
}
