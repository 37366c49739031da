package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeBase is a named, isolated document collection. CollectionName is
// the deterministically derived backing collection identifier.
type KnowledgeBase struct {
	Id             uuid.UUID
	Name           string
	CollectionName string
	Description    string
	CreatedAt      time.Time
	ChunkCount     int64
}
