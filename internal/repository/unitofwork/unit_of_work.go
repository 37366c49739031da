package unitofwork

import (
	"context"

	"multikb-rag-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeBaseRepository() contract.KnowledgeBaseRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	RouterEntryRepository() contract.RouterEntryRepository
	SystemLogRepository() contract.SystemLogRepository
}
