package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"multikb-rag-be/internal/constant"
	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/pkg/kbname"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/repository/unitofwork"
	"multikb-rag-be/pkg/embedding"
	"multikb-rag-be/pkg/extract"
	"multikb-rag-be/pkg/llm"
	"multikb-rag-be/pkg/utils"

	"github.com/google/uuid"
)

// metadataExcerptLimit caps how much of the first page is sent to the LLM
// for metadata extraction.
const metadataExcerptLimit = 2000

type IIngestionService interface {
	Upload(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
}

type ingestionService struct {
	uowFactory        unitofwork.RepositoryFactory
	registryService   IRegistryService
	routerService     IRouterService
	extractor         extract.Extractor
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	publisherService  IPublisherService
	chunkSize         int
	chunkOverlap      int
	log               logger.ILogger
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	registryService IRegistryService,
	routerService IRouterService,
	extractor extract.Extractor,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	chunkSize int,
	chunkOverlap int,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		uowFactory:        uowFactory,
		registryService:   registryService,
		routerService:     routerService,
		extractor:         extractor,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		publisherService:  publisherService,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
		log:               log,
	}
}

func (s *ingestionService) Upload(ctx context.Context, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	normalized := kbname.Normalize(req.KbName)
	collectionName := kbname.CollectionName(req.KbName)

	// 1. Resolve the target knowledge base. Auto-creation is deferred until
	//    the document has produced storable chunks, so a rejected upload
	//    never leaves an empty knowledge base behind.
	autoCreate := req.AutoCreate == nil || *req.AutoCreate
	exists, err := s.registryService.Exists(ctx, req.KbName)
	if err != nil {
		return nil, err
	}
	if !exists && !autoCreate {
		return nil, serverutils.NewNotFoundError(
			fmt.Sprintf("knowledge base '%s' not found", normalized))
	}

	// 2. Decode the payload
	fileBytes, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return nil, serverutils.NewValidationError("content must be base64-encoded file bytes")
	}

	// 3. Extract ordered pages
	contentType := extract.ResolveContentType(req.ContentType, req.FileName)
	pages, err := s.extractor.Extract(ctx, fileBytes, contentType)
	if err != nil {
		var unsupported *extract.ErrUnsupportedFormat
		if errors.As(err, &unsupported) {
			return nil, serverutils.NewUnsupportedFormatError(unsupported.Error())
		}
		return nil, serverutils.NewUnsupportedFormatError(
			fmt.Sprintf("failed to extract text from '%s': %v", req.FileName, err))
	}
	if len(pages) == 0 {
		return nil, serverutils.NewValidationError("document contains no extractable text")
	}

	// 4. Extract metadata from the first page, falling back to defaults
	metadata := s.extractMetadata(ctx, pages[0].Text)

	// 5. Synthesize the knowledge base description
	description := synthesizeDescription(metadata)

	// 6. Chunk every page, preserving page numbers
	type stagedChunk struct {
		text string
		page int
	}
	var staged []stagedChunk
	for _, page := range pages {
		for _, chunkText := range utils.SplitText(page.Text, s.chunkSize, s.chunkOverlap) {
			staged = append(staged, stagedChunk{text: chunkText, page: page.Number})
		}
	}
	if len(staged) == 0 {
		return nil, serverutils.NewValidationError("document contains no extractable text")
	}

	// 7. Embed all chunks before any store write
	texts := make([]string, len(staged))
	for i, c := range staged {
		texts[i] = c.text
	}
	vectors, err := embedding.GenerateBatch(ctx, s.embeddingProvider, texts, embedding.TaskRetrievalDocument)
	if err != nil {
		return nil, serverutils.NewEmbeddingServiceError(
			fmt.Sprintf("failed to embed document '%s'", req.FileName))
	}

	// 8. Register the knowledge base now that the document is fully staged,
	//    seeded with the synthesized description
	kbCreated := false
	if !exists {
		_, created, err := s.registryService.Create(ctx, req.KbName, description, false)
		if err != nil {
			return nil, err
		}
		kbCreated = created
	}

	// 9. Commit the whole document in one batch
	now := time.Now()
	chunks := make([]*entity.DocumentChunk, len(staged))
	for i, c := range staged {
		chunks[i] = &entity.DocumentChunk{
			Id:             uuid.New(),
			CollectionName: collectionName,
			Document:       c.text,
			EmbeddingValue: vectors[i],
			FileName:       req.FileName,
			PageNumber:     c.page,
			DocType:        metadata.DocType,
			Category:       metadata.Category,
			KbName:         normalized,
			UploadedAt:     now,
			Extra:          req.ExtraMetadata,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return nil, serverutils.NewVectorStoreWriteError(
			fmt.Sprintf("failed to store document '%s'", req.FileName))
	}

	// 10. Refresh the registry description and router entry. A just-created
	//     knowledge base already got both from the registry.
	if !kbCreated {
		if description != constant.DescriptionPlaceholder {
			if err := uow.KnowledgeBaseRepository().UpdateDescription(ctx, collectionName, description); err != nil {
				s.log.Warn("ingestion", "failed to update knowledge base description", map[string]interface{}{
					"collection_name": collectionName,
					"error":           err.Error(),
				})
			}
		}
		if err := s.routerService.UpdateEntry(ctx, collectionName, normalized, description); err != nil {
			// Chunks are committed; routing degrades gracefully until the next upload
			s.log.Warn("ingestion", "router entry update failed", map[string]interface{}{
				"collection_name": collectionName,
				"error":           err.Error(),
			})
		}
	}

	// 11. Publish the audit event, fire and forget
	event := dto.DocumentIngestedEvent{
		KbName:         normalized,
		CollectionName: collectionName,
		FileName:       req.FileName,
		PageCount:      len(pages),
		ChunkCount:     len(chunks),
		DocType:        metadata.DocType,
		Category:       metadata.Category,
		OccurredAt:     now,
	}
	if payload, err := json.Marshal(event); err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.log.Warn("ingestion", "failed to publish ingest event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.log.Info("ingestion", "document ingested", map[string]interface{}{
		"kb_name":     normalized,
		"file_name":   req.FileName,
		"page_count":  len(pages),
		"chunk_count": len(chunks),
	})

	return &dto.UploadDocumentResponse{
		KbName:         normalized,
		CollectionName: collectionName,
		FileName:       req.FileName,
		PageCount:      len(pages),
		ChunksStored:   len(chunks),
		Metadata: dto.DocumentMetadataDTO{
			DocType:  metadata.DocType,
			Category: metadata.Category,
			Status:   metadata.Status,
			Title:    metadata.Title,
		},
		Description: description,
		KbCreated:   kbCreated,
	}, nil
}

type extractedMetadata struct {
	DocType  string `json:"doc_type"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Title    string `json:"title"`
}

// extractMetadata asks the LLM to classify the document. Any failure falls
// back to default metadata rather than failing the upload.
func (s *ingestionService) extractMetadata(ctx context.Context, firstPage string) entity.DocumentMetadata {
	fallback := entity.DocumentMetadata{
		DocType:  constant.DefaultDocType,
		Category: constant.DefaultCategory,
		Status:   constant.DefaultStatus,
		Title:    constant.DefaultTitle,
	}

	excerpt := firstPage
	if runes := []rune(excerpt); len(runes) > metadataExcerptLimit {
		excerpt = string(runes[:metadataExcerptLimit])
	}
	if strings.TrimSpace(excerpt) == "" {
		return fallback
	}

	prompt := fmt.Sprintf(constant.MetadataExtractorPromptV1, excerpt)
	raw, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		s.log.Warn("ingestion", "metadata extraction failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return fallback
	}

	var parsed extractedMetadata
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		s.log.Warn("ingestion", "metadata response was not valid JSON, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return fallback
	}

	result := entity.DocumentMetadata{
		DocType:  strings.TrimSpace(parsed.DocType),
		Category: strings.TrimSpace(parsed.Category),
		Status:   strings.TrimSpace(parsed.Status),
		Title:    strings.TrimSpace(parsed.Title),
	}
	if result.DocType == "" {
		result.DocType = constant.DefaultDocType
	}
	if result.Category == "" {
		result.Category = constant.DefaultCategory
	}
	if result.Status == "" {
		result.Status = constant.DefaultStatus
	}
	if result.Title == "" {
		result.Title = constant.DefaultTitle
	}
	return result
}

// synthesizeDescription renders the routing description from extracted
// metadata. All-default metadata means nothing useful was learned, so the
// placeholder is kept and no router entry gets written.
func synthesizeDescription(m entity.DocumentMetadata) string {
	if m.DocType == constant.DefaultDocType &&
		m.Category == constant.DefaultCategory &&
		m.Status == constant.DefaultStatus &&
		m.Title == constant.DefaultTitle {
		return constant.DescriptionPlaceholder
	}
	return fmt.Sprintf(constant.DescriptionTemplate, m.DocType, m.Title, m.Category, m.Status)
}

// stripCodeFences unwraps ```json ... ``` style responses some models emit
// despite being told not to.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
