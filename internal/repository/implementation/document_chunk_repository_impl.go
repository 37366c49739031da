package implementation

import (
	"context"

	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/mapper"
	"multikb-rag-be/internal/model"
	"multikb-rag-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Write generated IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentChunkRepositoryImpl) CountByCollection(ctx context.Context, collectionName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentChunk{}).
		Where("collection_name = ?", collectionName).
		Count(&count).Error
	return count, err
}

func (r *DocumentChunkRepositoryImpl) DeleteByCollection(ctx context.Context, collectionName string) error {
	return r.db.WithContext(ctx).
		Where("collection_name = ?", collectionName).
		Delete(&model.DocumentChunk{}).Error
}

// SearchSimilarWithScore returns chunks of a collection with cosine similarity scores.
// Cosine distance in pgvector is 1 - cosine_similarity, so we compute
// 1 - (embedding_value <=> query_vector).
func (r *DocumentChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, collectionName string, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("collection_name = ?", collectionName).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredDocumentChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredDocumentChunk{
			Chunk:      r.mapper.ToEntity(&res.DocumentChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
