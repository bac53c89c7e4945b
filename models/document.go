package models

// Document describes one ingested source PDF. Records are created at
// ingestion time and only the chunk count changes afterwards, when the
// registry is reconstructed from sampled index metadata.
type Document struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	SourceFile string `json:"source_file"`
	Chunks     int    `json:"chunks"`
}
