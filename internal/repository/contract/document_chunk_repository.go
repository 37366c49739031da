package contract

import (
	"context"

	"multikb-rag-be/internal/entity"
)

type DocumentChunkRepository interface {
	// CreateBulk writes all chunks in a single batch insert. Either every
	// chunk lands or none do.
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	CountByCollection(ctx context.Context, collectionName string) (int64, error)
	DeleteByCollection(ctx context.Context, collectionName string) error
	// SearchSimilarWithScore returns the top chunks of one collection ordered
	// by cosine similarity to the query vector.
	SearchSimilarWithScore(ctx context.Context, collectionName string, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error)
}
