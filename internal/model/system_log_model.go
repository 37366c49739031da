package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog records ingestion audit events consumed off the event bus.
type SystemLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventType string    `gorm:"index;not null"`
	Details   datatypes.JSON
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}
