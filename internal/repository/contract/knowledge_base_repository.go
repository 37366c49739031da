package contract

import (
	"context"

	"multikb-rag-be/internal/entity"
)

type KnowledgeBaseRepository interface {
	// Create inserts the knowledge base and fails if the collection name is taken.
	Create(ctx context.Context, kb *entity.KnowledgeBase) error
	// CreateIfAbsent inserts the knowledge base, silently keeping the existing
	// row on a collection name conflict. Returns true when a row was inserted.
	CreateIfAbsent(ctx context.Context, kb *entity.KnowledgeBase) (bool, error)
	FindByCollectionName(ctx context.Context, collectionName string) (*entity.KnowledgeBase, error)
	FindAll(ctx context.Context) ([]*entity.KnowledgeBase, error)
	ExistsByCollectionName(ctx context.Context, collectionName string) (bool, error)
	UpdateDescription(ctx context.Context, collectionName string, description string) error
	DeleteByCollectionName(ctx context.Context, collectionName string) error
}
