package services

import (
	"sort"
	"sync"

	"github.com/regsentry/directive-rag/models"
)

// SampleLimit caps how many stored entries are read when reconstructing
// the registry from an existing collection.
const SampleLimit = 1000

// DocumentRegistry is the in-memory catalogue of ingested documents. It is
// an explicit dependency passed into the ingestion and query services, not
// shared package state, so independent collections can coexist (and tests
// can build their own).
type DocumentRegistry struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
}

func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		docs: make(map[string]*models.Document),
	}
}

// Add records a document at ingestion time with its final chunk count.
func (r *DocumentRegistry) Add(doc models.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := doc
	r.docs[doc.ID] = &copied
}

// RebuildFromSample reconstructs the catalogue from sampled index metadata:
// one document per unseen document_id, then one chunk counted per sampled
// entry. When the collection holds more entries than the sample cap the
// per-document chunk counts are an undercount; callers must present them
// as approximate, never as exact totals.
func (r *DocumentRegistry) RebuildFromSample(metadatas []map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, meta := range metadatas {
		docID, ok := meta["document_id"].(string)
		if !ok || docID == "" {
			continue
		}
		if _, exists := r.docs[docID]; !exists {
			r.docs[docID] = &models.Document{
				ID:         docID,
				Name:       stringOr(meta, "document_name", "Unknown"),
				Type:       stringOr(meta, "document_type", "Unknown"),
				SourceFile: stringOr(meta, "source_file", ""),
			}
		}
	}
	for _, meta := range metadatas {
		if docID, ok := meta["document_id"].(string); ok {
			if doc, exists := r.docs[docID]; exists {
				doc.Chunks++
			}
		}
	}
}

// List returns the documents sorted by name for stable presentation.
func (r *DocumentRegistry) List() []models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, *doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the filter choices: the "All Documents" sentinel first,
// then every registered document name.
func (r *DocumentRegistry) Names() []string {
	names := []string{AllDocuments}
	for _, doc := range r.List() {
		names = append(names, doc.Name)
	}
	return names
}

// Len returns the number of registered documents.
func (r *DocumentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

func stringOr(meta map[string]interface{}, key, fallback string) string {
	if v, ok := meta[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
