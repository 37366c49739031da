package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"multikb-rag-be/internal/constant"
	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/pkg/kbname"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/repository/memory"
	"multikb-rag-be/internal/repository/unitofwork"
	"multikb-rag-be/pkg/embedding"
	"multikb-rag-be/pkg/llm"
)

// sourceSnippetLimit caps how much chunk text is echoed back as a citation.
const sourceSnippetLimit = 200

type IChatService interface {
	// ChatWithKb answers a query from one knowledge base's documents,
	// carrying the session's conversation history.
	ChatWithKb(ctx context.Context, kbName, query, sessionID string, topK int) (*dto.ChatResponse, error)
	// ChatGlobal routes the query to the best knowledge base first. A
	// routing miss returns an unrouted listing, not an error.
	ChatGlobal(ctx context.Context, query, sessionID string, topK int) (*dto.GlobalChatResponse, error)
	ClearHistory(ctx context.Context, kbName, sessionID string) (*dto.ClearHistoryResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	routerService     IRouterService
	conversations     *memory.ConversationRepository
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	defaultTopK       int
	log               logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	routerService IRouterService,
	conversations *memory.ConversationRepository,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	defaultTopK int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		routerService:     routerService,
		conversations:     conversations,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		defaultTopK:       defaultTopK,
		log:               log,
	}
}

func (s *chatService) ChatWithKb(ctx context.Context, kbName, query, sessionID string, topK int) (*dto.ChatResponse, error) {
	normalized := kbname.Normalize(kbName)
	collectionName := kbname.CollectionName(kbName)
	if topK <= 0 {
		topK = s.defaultTopK
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Existence is checked before any session state is touched
	exists, err := uow.KnowledgeBaseRepository().ExistsByCollectionName(ctx, collectionName)
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to check knowledge base")
	}
	if !exists {
		return nil, serverutils.NewNotFoundError(
			fmt.Sprintf("knowledge base '%s' not found", normalized))
	}

	queryRes, err := s.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, serverutils.NewEmbeddingServiceError("failed to embed query")
	}

	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, collectionName, queryRes.Embedding.Values, topK)
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to search documents")
	}

	history := s.conversations.History(normalized, sessionID)
	answer, err := s.generateAnswer(ctx, history, scored, query)
	if err != nil {
		return nil, err
	}

	s.conversations.Append(normalized, sessionID, entity.ConversationTurn{
		Query:     query,
		Answer:    answer,
		CreatedAt: time.Now(),
	})

	s.log.Info("chat", "answered from knowledge base", map[string]interface{}{
		"kb_name":    normalized,
		"session_id": sessionID,
		"sources":    len(scored),
	})

	return &dto.ChatResponse{
		KbName:    normalized,
		Answer:    answer,
		Sources:   buildSources(scored),
		SessionId: sessionID,
	}, nil
}

func (s *chatService) ChatGlobal(ctx context.Context, query, sessionID string, topK int) (*dto.GlobalChatResponse, error) {
	match, err := s.routerService.Route(ctx, query)
	if err != nil {
		return nil, err
	}

	if match == nil {
		// Unrouted is a normal outcome, answered with what is available
		uow := s.uowFactory.NewUnitOfWork(ctx)
		kbs, err := uow.KnowledgeBaseRepository().FindAll(ctx)
		if err != nil {
			return nil, serverutils.NewVectorStoreReadError("failed to list knowledge bases")
		}
		names := make([]string, len(kbs))
		for i, kb := range kbs {
			names[i] = kb.Name
		}

		s.log.Info("chat", "global query matched no knowledge base", map[string]interface{}{
			"session_id": sessionID,
		})
		return &dto.GlobalChatResponse{
			Routed:       false,
			SessionId:    sessionID,
			Message:      "No knowledge base matched this query. Try asking about one of the available knowledge bases directly.",
			AvailableKbs: names,
		}, nil
	}

	res, err := s.ChatWithKb(ctx, match.Entry.KbName, query, sessionID, topK)
	if err != nil {
		return nil, err
	}

	return &dto.GlobalChatResponse{
		Routed:    true,
		Answer:    res.Answer,
		Sources:   res.Sources,
		SessionId: sessionID,
		Routing: &dto.RoutingDTO{
			Method:     constant.RoutingMethodSemantic,
			KbName:     match.Entry.KbName,
			Confidence: match.Similarity,
		},
	}, nil
}

func (s *chatService) ClearHistory(ctx context.Context, kbName, sessionID string) (*dto.ClearHistoryResponse, error) {
	normalized := kbname.Normalize(kbName)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	exists, err := uow.KnowledgeBaseRepository().ExistsByCollectionName(ctx, kbname.CollectionName(kbName))
	if err != nil {
		return nil, serverutils.NewVectorStoreReadError("failed to check knowledge base")
	}
	if !exists {
		return nil, serverutils.NewNotFoundError(
			fmt.Sprintf("knowledge base '%s' not found", normalized))
	}

	cleared := s.conversations.Clear(normalized, sessionID)
	return &dto.ClearHistoryResponse{
		KbName:    normalized,
		SessionId: sessionID,
		Cleared:   cleared,
	}, nil
}

func (s *chatService) generateAnswer(ctx context.Context, history []entity.ConversationTurn, scored []*entity.ScoredDocumentChunk, query string) (string, error) {
	var contextBuilder strings.Builder
	for i, sc := range scored {
		if i > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(fmt.Sprintf("[Source: %s, page %d]\n", sc.Chunk.FileName, sc.Chunk.PageNumber))
		contextBuilder.WriteString(sc.Chunk.Document)
	}
	contextText := contextBuilder.String()
	if contextText == "" {
		contextText = "(no relevant documents found)"
	}

	messages := make([]llm.Message, 0, len(history)*2+1)
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: constant.ChatMessageRoleUser, Content: turn.Query},
			llm.Message{Role: constant.ChatMessageRoleModel, Content: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: fmt.Sprintf(constant.AnswerPromptV1, contextText, query),
	})

	answer, err := s.llmProvider.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return answer, nil
}

func buildSources(scored []*entity.ScoredDocumentChunk) []dto.SourceDTO {
	sources := make([]dto.SourceDTO, len(scored))
	for i, sc := range scored {
		snippet := sc.Chunk.Document
		if runes := []rune(snippet); len(runes) > sourceSnippetLimit {
			snippet = string(runes[:sourceSnippetLimit]) + "..."
		}
		sources[i] = dto.SourceDTO{
			Snippet:    snippet,
			FileName:   sc.Chunk.FileName,
			PageNumber: sc.Chunk.PageNumber,
			Similarity: sc.Similarity,
		}
	}
	return sources
}
