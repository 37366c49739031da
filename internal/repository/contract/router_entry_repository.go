package contract

import (
	"context"

	"multikb-rag-be/internal/entity"
)

type RouterEntryRepository interface {
	// Upsert inserts or replaces the routing entry for a collection.
	Upsert(ctx context.Context, entry *entity.RouterEntry) error
	FindAll(ctx context.Context) ([]*entity.RouterEntry, error)
	DeleteByCollection(ctx context.Context, collectionName string) error
	// SearchBest returns routing entries ordered by cosine similarity to the
	// query vector, ties broken by most recent update.
	SearchBest(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredRouterEntry, error)
}
