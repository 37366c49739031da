package dto

import "time"

const TopicDocumentIngested = "document.ingested"

// DocumentIngestedEvent is the audit event published after a successful
// ingestion. Nothing in the ingest flow depends on its delivery.
type DocumentIngestedEvent struct {
	KbName         string    `json:"kb_name"`
	CollectionName string    `json:"collection_name"`
	FileName       string    `json:"file_name"`
	PageCount      int       `json:"page_count"`
	ChunkCount     int       `json:"chunk_count"`
	DocType        string    `json:"doc_type"`
	Category       string    `json:"category"`
	OccurredAt     time.Time `json:"occurred_at"`
}
