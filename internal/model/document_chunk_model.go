package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CollectionName string          `gorm:"index;not null"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	FileName       string
	PageNumber     int
	DocType        string
	Category       string
	KbName         string
	UploadedAt     time.Time      `gorm:"autoCreateTime"`
	Extra          datatypes.JSON // caller-supplied metadata passthrough
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
