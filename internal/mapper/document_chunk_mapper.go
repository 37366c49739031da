package mapper

import (
	"encoding/json"

	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	var extra map[string]interface{}
	if len(c.Extra) > 0 {
		// Malformed extra payloads are dropped, not fatal
		_ = json.Unmarshal(c.Extra, &extra)
	}

	return &entity.DocumentChunk{
		Id:             c.Id,
		CollectionName: c.CollectionName,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		FileName:       c.FileName,
		PageNumber:     c.PageNumber,
		DocType:        c.DocType,
		Category:       c.Category,
		KbName:         c.KbName,
		UploadedAt:     c.UploadedAt,
		Extra:          extra,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	var extra datatypes.JSON
	if len(c.Extra) > 0 {
		if raw, err := json.Marshal(c.Extra); err == nil {
			extra = raw
		}
	}

	return &model.DocumentChunk{
		Id:             c.Id,
		CollectionName: c.CollectionName,
		Document:       c.Document,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		FileName:       c.FileName,
		PageNumber:     c.PageNumber,
		DocType:        c.DocType,
		Category:       c.Category,
		KbName:         c.KbName,
		UploadedAt:     c.UploadedAt,
		Extra:          extra,
	}
}

func (m *DocumentChunkMapper) ToModels(chunks []*entity.DocumentChunk) []*model.DocumentChunk {
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
