package dto

import "time"

type CreateKbRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type KbResponse struct {
	Name           string    `json:"name"`
	CollectionName string    `json:"collection_name"`
	Description    string    `json:"description"`
	ChunkCount     int64     `json:"chunk_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListKbResponse struct {
	Collections []KbResponse `json:"collections"`
	Total       int          `json:"total"`
}

type DeleteKbResponse struct {
	Name           string `json:"name"`
	CollectionName string `json:"collection_name"`
}
