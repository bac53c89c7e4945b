package models

// SearchResult is one retrieved chunk with its per-query similarity score.
// Scores are normalized against the maximum distance of the result set they
// belong to, so they are not comparable across queries.
type SearchResult struct {
	Text     string                 `json:"text"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Source is a citation attached to a generated answer, in retrieval order.
type Source struct {
	Chunk     string  `json:"chunk"`
	Relevance float64 `json:"relevance"`
	Document  string  `json:"document"`
	Type      string  `json:"type"`
}

// GenerateResult is the output of the full RAG pipeline: the answer, its
// citations, and the assembled context kept for audit purposes.
type GenerateResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Context string   `json:"context"`
}
