package entity

import "time"

// RouterEntry holds the embedded description of one knowledge base inside the
// router index. At most one entry exists per KB, keyed by collection name.
type RouterEntry struct {
	CollectionName string
	KbName         string
	Description    string
	EmbeddingValue []float32
	UpdatedAt      time.Time
}

// ScoredRouterEntry pairs a router entry with its similarity to a query.
type ScoredRouterEntry struct {
	Entry      *RouterEntry
	Similarity float64
}
