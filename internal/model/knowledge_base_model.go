package model

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeBase struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"not null"`
	CollectionName string    `gorm:"uniqueIndex;not null"`
	Description    string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (KnowledgeBase) TableName() string {
	return "knowledge_bases"
}
