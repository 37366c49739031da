package implementation

import (
	"context"
	"errors"

	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/mapper"
	"multikb-rag-be/internal/model"
	"multikb-rag-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KnowledgeBaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeBaseMapper
}

func NewKnowledgeBaseRepository(db *gorm.DB) contract.KnowledgeBaseRepository {
	return &KnowledgeBaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeBaseMapper(),
	}
}

func (r *KnowledgeBaseRepositoryImpl) Create(ctx context.Context, kb *entity.KnowledgeBase) error {
	m := r.mapper.ToModel(kb)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*kb = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeBaseRepositoryImpl) CreateIfAbsent(ctx context.Context, kb *entity.KnowledgeBase) (bool, error) {
	m := r.mapper.ToModel(kb)

	// ON CONFLICT DO NOTHING keeps concurrent auto-creates race-free
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_name"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	*kb = *r.mapper.ToEntity(m)
	return true, nil
}

func (r *KnowledgeBaseRepositoryImpl) FindByCollectionName(ctx context.Context, collectionName string) (*entity.KnowledgeBase, error) {
	var m model.KnowledgeBase
	err := r.db.WithContext(ctx).
		Where("collection_name = ?", collectionName).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KnowledgeBaseRepositoryImpl) FindAll(ctx context.Context) ([]*entity.KnowledgeBase, error) {
	var models []*model.KnowledgeBase
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *KnowledgeBaseRepositoryImpl) ExistsByCollectionName(ctx context.Context, collectionName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.KnowledgeBase{}).
		Where("collection_name = ?", collectionName).
		Count(&count).Error
	return count > 0, err
}

func (r *KnowledgeBaseRepositoryImpl) UpdateDescription(ctx context.Context, collectionName string, description string) error {
	return r.db.WithContext(ctx).
		Model(&model.KnowledgeBase{}).
		Where("collection_name = ?", collectionName).
		Update("description", description).Error
}

func (r *KnowledgeBaseRepositoryImpl) DeleteByCollectionName(ctx context.Context, collectionName string) error {
	return r.db.WithContext(ctx).
		Where("collection_name = ?", collectionName).
		Delete(&model.KnowledgeBase{}).Error
}
