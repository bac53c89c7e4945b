package models

// ChunkRecord is the unit handed to the vector store: one chunk of text
// plus the metadata persisted alongside its embedding.
type ChunkRecord struct {
	Text     string
	Metadata ChunkMetadata
}

// ChunkMetadata identifies where a chunk came from. The field names match
// the keys stored in the collection, so a registry rebuilt from stored
// metadata sees exactly what ingestion wrote.
type ChunkMetadata struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	DocumentType string `json:"document_type"`
	ChunkIndex   int    `json:"chunk_index"`
	SourceFile   string `json:"source_file"`
}
