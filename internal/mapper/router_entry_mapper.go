package mapper

import (
	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type RouterEntryMapper struct{}

func NewRouterEntryMapper() *RouterEntryMapper {
	return &RouterEntryMapper{}
}

func (m *RouterEntryMapper) ToEntity(e *model.RouterEntry) *entity.RouterEntry {
	if e == nil {
		return nil
	}
	return &entity.RouterEntry{
		CollectionName: e.CollectionName,
		KbName:         e.KbName,
		Description:    e.Description,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		UpdatedAt:      e.UpdatedAt,
	}
}

func (m *RouterEntryMapper) ToModel(e *entity.RouterEntry) *model.RouterEntry {
	if e == nil {
		return nil
	}
	return &model.RouterEntry{
		CollectionName: e.CollectionName,
		KbName:         e.KbName,
		Description:    e.Description,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		UpdatedAt:      e.UpdatedAt,
	}
}
