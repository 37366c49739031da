package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type RouterEntry struct {
	CollectionName string          `gorm:"primaryKey"`
	KbName         string          `gorm:"not null"`
	Description    string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (RouterEntry) TableName() string {
	return "router_entries"
}
