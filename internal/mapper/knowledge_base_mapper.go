package mapper

import (
	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/model"
)

type KnowledgeBaseMapper struct{}

func NewKnowledgeBaseMapper() *KnowledgeBaseMapper {
	return &KnowledgeBaseMapper{}
}

func (m *KnowledgeBaseMapper) ToEntity(kb *model.KnowledgeBase) *entity.KnowledgeBase {
	if kb == nil {
		return nil
	}
	return &entity.KnowledgeBase{
		Id:             kb.Id,
		Name:           kb.Name,
		CollectionName: kb.CollectionName,
		Description:    kb.Description,
		CreatedAt:      kb.CreatedAt,
	}
}

func (m *KnowledgeBaseMapper) ToModel(kb *entity.KnowledgeBase) *model.KnowledgeBase {
	if kb == nil {
		return nil
	}
	return &model.KnowledgeBase{
		Id:             kb.Id,
		Name:           kb.Name,
		CollectionName: kb.CollectionName,
		Description:    kb.Description,
		CreatedAt:      kb.CreatedAt,
	}
}

func (m *KnowledgeBaseMapper) ToEntities(kbs []*model.KnowledgeBase) []*entity.KnowledgeBase {
	entities := make([]*entity.KnowledgeBase, len(kbs))
	for i, kb := range kbs {
		entities[i] = m.ToEntity(kb)
	}
	return entities
}
