package service

import (
	"context"
	"fmt"
	"time"

	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/pkg/kbname"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/repository/memory"
	"multikb-rag-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IRegistryService interface {
	// Create registers a knowledge base. An explicit create of an existing
	// name fails AlreadyExists; non-explicit (auto) create accepts a
	// pre-existing collection as-is.
	Create(ctx context.Context, name, description string, explicit bool) (*dto.KbResponse, bool, error)
	List(ctx context.Context) (*dto.ListKbResponse, error)
	GetInfo(ctx context.Context, name string) (*dto.KbResponse, error)
	Delete(ctx context.Context, name string) (*dto.DeleteKbResponse, error)
	Exists(ctx context.Context, name string) (bool, error)
}

type registryService struct {
	uowFactory    unitofwork.RepositoryFactory
	routerService IRouterService
	conversations *memory.ConversationRepository
	log           logger.ILogger
}

func NewRegistryService(
	uowFactory unitofwork.RepositoryFactory,
	routerService IRouterService,
	conversations *memory.ConversationRepository,
	log logger.ILogger,
) IRegistryService {
	return &registryService{
		uowFactory:    uowFactory,
		routerService: routerService,
		conversations: conversations,
		log:           log,
	}
}

func (s *registryService) Create(ctx context.Context, name, description string, explicit bool) (*dto.KbResponse, bool, error) {
	normalized := kbname.Normalize(name)
	if normalized == "" {
		return nil, false, serverutils.NewValidationError("knowledge base name must contain at least one alphanumeric character")
	}
	collectionName := kbname.CollectionName(name)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	kb := &entity.KnowledgeBase{
		Id:             uuid.New(),
		Name:           normalized,
		CollectionName: collectionName,
		Description:    description,
		CreatedAt:      time.Now(),
	}

	created, err := uow.KnowledgeBaseRepository().CreateIfAbsent(ctx, kb)
	if err != nil {
		return nil, false, serverutils.NewVectorStoreWriteError("failed to create knowledge base")
	}

	if !created {
		if explicit {
			return nil, false, serverutils.NewAlreadyExistsError(
				fmt.Sprintf("knowledge base '%s' already exists", normalized))
		}
		// Auto-create accepts the existing collection untouched
		existing, err := uow.KnowledgeBaseRepository().FindByCollectionName(ctx, collectionName)
		if err != nil {
			return nil, false, serverutils.NewVectorStoreReadError("failed to read knowledge base")
		}
		return s.toResponse(existing, 0), false, nil
	}

	if err := s.routerService.UpdateEntry(ctx, collectionName, normalized, description); err != nil {
		// The knowledge base exists either way; routing catches up on the
		// next description update.
		s.log.Warn("registry", "router entry update failed after create", map[string]interface{}{
			"collection_name": collectionName,
			"error":           err.Error(),
		})
	}

	s.log.Info("registry", "knowledge base created", map[string]interface{}{
		"name":            normalized,
		"collection_name": collectionName,
		"explicit":        explicit,
	})
	return s.toResponse(kb, 0), true, nil
}

func (s *registryService) List(ctx context.Context) (*dto.ListKbResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	kbs, err := uow.KnowledgeBaseRepository().FindAll(ctx)
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to list knowledge bases")
	}

	result := &dto.ListKbResponse{
		Collections: make([]dto.KbResponse, 0, len(kbs)),
		Total:       len(kbs),
	}
	for _, kb := range kbs {
		count, err := uow.DocumentChunkRepository().CountByCollection(ctx, kb.CollectionName)
		if err != nil {
			return nil, serverutils.NewVectorStoreReadError("failed to count documents")
		}
		result.Collections = append(result.Collections, *s.toResponse(kb, count))
	}
	return result, nil
}

func (s *registryService) GetInfo(ctx context.Context, name string) (*dto.KbResponse, error) {
	collectionName := kbname.CollectionName(name)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	kb, err := uow.KnowledgeBaseRepository().FindByCollectionName(ctx, collectionName)
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to read knowledge base")
	}
	if kb == nil {
		return nil, serverutils.NewNotFoundError(fmt.Sprintf("knowledge base '%s' not found", kbname.Normalize(name)))
	}

	count, err := uow.DocumentChunkRepository().CountByCollection(ctx, collectionName)
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to count documents")
	}
	return s.toResponse(kb, count), nil
}

func (s *registryService) Delete(ctx context.Context, name string) (*dto.DeleteKbResponse, error) {
	normalized := kbname.Normalize(name)
	collectionName := kbname.CollectionName(name)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	kb, err := uow.KnowledgeBaseRepository().FindByCollectionName(ctx, collectionName)
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to read knowledge base")
	}
	if kb == nil {
		return nil, serverutils.NewNotFoundError(fmt.Sprintf("knowledge base '%s' not found", normalized))
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewVectorStoreWriteError("failed to start delete transaction")
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByCollection(ctx, collectionName); err != nil {
		return nil, serverutils.NewVectorStoreWriteError("failed to delete documents")
	}
	if err := uow.RouterEntryRepository().DeleteByCollection(ctx, collectionName); err != nil {
		return nil, serverutils.NewVectorStoreWriteError("failed to delete router entry")
	}
	if err := uow.KnowledgeBaseRepository().DeleteByCollectionName(ctx, collectionName); err != nil {
		return nil, serverutils.NewVectorStoreWriteError("failed to delete knowledge base")
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewVectorStoreWriteError("failed to commit delete")
	}

	// Conversation histories live in process memory, outside the transaction
	s.conversations.ClearKb(kb.Name)

	s.log.Info("registry", "knowledge base deleted", map[string]interface{}{
		"name":            kb.Name,
		"collection_name": collectionName,
	})
	return &dto.DeleteKbResponse{
		Name:           kb.Name,
		CollectionName: collectionName,
	}, nil
}

func (s *registryService) Exists(ctx context.Context, name string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	exists, err := uow.KnowledgeBaseRepository().ExistsByCollectionName(ctx, kbname.CollectionName(name))
	if err != nil {
		return false, serverutils.NewVectorStoreReadError("failed to check knowledge base")
	}
	return exists, nil
}

func (s *registryService) toResponse(kb *entity.KnowledgeBase, chunkCount int64) *dto.KbResponse {
	return &dto.KbResponse{
		Name:           kb.Name,
		CollectionName: kb.CollectionName,
		Description:    kb.Description,
		ChunkCount:     chunkCount,
		CreatedAt:      kb.CreatedAt,
	}
}
