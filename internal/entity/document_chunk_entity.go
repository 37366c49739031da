package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is an embedded fragment of an uploaded document. Chunks belong
// to exactly one knowledge base and are immutable once written.
type DocumentChunk struct {
	Id             uuid.UUID
	CollectionName string
	Document       string
	EmbeddingValue []float32
	FileName       string
	PageNumber     int
	DocType        string
	Category       string
	KbName         string
	UploadedAt     time.Time
	Extra          map[string]interface{}
}

// ScoredDocumentChunk pairs a chunk with its cosine similarity to a query.
type ScoredDocumentChunk struct {
	Chunk      *DocumentChunk
	Similarity float64
}
