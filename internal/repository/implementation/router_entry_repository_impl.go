package implementation

import (
	"context"

	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/mapper"
	"multikb-rag-be/internal/model"
	"multikb-rag-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RouterEntryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RouterEntryMapper
}

func NewRouterEntryRepository(db *gorm.DB) contract.RouterEntryRepository {
	return &RouterEntryRepositoryImpl{
		db:     db,
		mapper: mapper.NewRouterEntryMapper(),
	}
}

func (r *RouterEntryRepositoryImpl) Upsert(ctx context.Context, entry *entity.RouterEntry) error {
	m := r.mapper.ToModel(entry)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_name"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *RouterEntryRepositoryImpl) FindAll(ctx context.Context) ([]*entity.RouterEntry, error) {
	var models []*model.RouterEntry
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	entries := make([]*entity.RouterEntry, len(models))
	for i, m := range models {
		entries[i] = r.mapper.ToEntity(m)
	}
	return entries, nil
}

func (r *RouterEntryRepositoryImpl) DeleteByCollection(ctx context.Context, collectionName string) error {
	return r.db.WithContext(ctx).
		Where("collection_name = ?", collectionName).
		Delete(&model.RouterEntry{}).Error
}

// SearchBest ranks routing entries by cosine similarity. Ties go to the
// most recently updated entry so fresher descriptions win.
func (r *RouterEntryRepositoryImpl) SearchBest(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredRouterEntry, error) {
	if limit <= 0 {
		limit = 1
	}

	type result struct {
		model.RouterEntry
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("router_entries").
		Select("router_entries.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC, updated_at DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredRouterEntry, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredRouterEntry{
			Entry:      r.mapper.ToEntity(&res.RouterEntry),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
