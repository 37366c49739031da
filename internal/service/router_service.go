package service

import (
	"context"
	"strings"

	"multikb-rag-be/internal/constant"
	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/repository/unitofwork"
	"multikb-rag-be/pkg/embedding"
)

type IRouterService interface {
	// UpdateEntry refreshes the routing entry of one knowledge base. Blank or
	// placeholder descriptions are skipped silently.
	UpdateEntry(ctx context.Context, collectionName, kbName, description string) error
	// Route picks the best-matching knowledge base for a query, or nil when
	// nothing clears the score threshold. A miss is not an error.
	Route(ctx context.Context, query string) (*entity.ScoredRouterEntry, error)
	RemoveEntry(ctx context.Context, collectionName string) error
}

type routerService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	scoreThreshold    float64
	log               logger.ILogger
}

func NewRouterService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	scoreThreshold float64,
	log logger.ILogger,
) IRouterService {
	return &routerService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		scoreThreshold:    scoreThreshold,
		log:               log,
	}
}

func (s *routerService) UpdateEntry(ctx context.Context, collectionName, kbName, description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" || trimmed == constant.DescriptionPlaceholder {
		s.log.Debug("router", "skipping router entry for blank description", map[string]interface{}{
			"collection_name": collectionName,
		})
		return nil
	}

	res, err := s.embeddingProvider.Generate(ctx, trimmed, embedding.TaskRetrievalDocument)
	if err != nil {
		return serverutils.NewEmbeddingServiceError("failed to embed knowledge base description")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry := &entity.RouterEntry{
		CollectionName: collectionName,
		KbName:         kbName,
		Description:    trimmed,
		EmbeddingValue: res.Embedding.Values,
	}
	if err := uow.RouterEntryRepository().Upsert(ctx, entry); err != nil {
		return serverutils.NewVectorStoreWriteError("failed to store router entry")
	}

	s.log.Info("router", "router entry updated", map[string]interface{}{
		"collection_name": collectionName,
		"kb_name":         kbName,
	})
	return nil
}

func (s *routerService) Route(ctx context.Context, query string) (*entity.ScoredRouterEntry, error) {
	res, err := s.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, serverutils.NewEmbeddingServiceError("failed to embed routing query")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := uow.RouterEntryRepository().SearchBest(ctx, res.Embedding.Values, 1)
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to search router entries")
	}

	if len(matches) == 0 || matches[0].Similarity < s.scoreThreshold {
		return nil, nil
	}
	return matches[0], nil
}

func (s *routerService) RemoveEntry(ctx context.Context, collectionName string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RouterEntryRepository().DeleteByCollection(ctx, collectionName)
}
