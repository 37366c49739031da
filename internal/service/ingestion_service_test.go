package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"multikb-rag-be/internal/constant"
	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/repository/memory"
	"multikb-rag-be/pkg/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestionFixture struct {
	service   IIngestionService
	factory   *fakeUowFactory
	llm       *fakeLLM
	embedder  *fakeEmbedder
	extractor *fakeExtractor
	publisher *fakePublisher
}

func newIngestionFixture() *ingestionFixture {
	factory := newFakeUowFactory()
	embedder := &fakeEmbedder{}
	llmFake := &fakeLLM{}
	extractor := &fakeExtractor{}
	publisher := &fakePublisher{}
	log := logger.NewNopLogger()

	router := NewRouterService(factory, embedder, 0.4, log)
	conversations := memory.NewConversationRepository(20)
	registry := NewRegistryService(factory, router, conversations, log)
	svc := NewIngestionService(factory, registry, router, extractor, embedder, llmFake, publisher, 1000, 200, log)

	return &ingestionFixture{
		service:   svc,
		factory:   factory,
		llm:       llmFake,
		embedder:  embedder,
		extractor: extractor,
		publisher: publisher,
	}
}

func uploadReq(kbName, fileName, text string, autoCreate *bool) *dto.UploadDocumentRequest {
	return &dto.UploadDocumentRequest{
		KbName:      kbName,
		FileName:    fileName,
		Content:     base64.StdEncoding.EncodeToString([]byte(text)),
		ContentType: "text/plain",
		AutoCreate:  autoCreate,
	}
}

func boolPtr(b bool) *bool { return &b }

func TestIngestionService_MissingKbWithoutAutoCreate(t *testing.T) {
	f := newIngestionFixture()

	_, err := f.service.Upload(context.Background(), uploadReq("ghost", "a.txt", "hello", boolPtr(false)))

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeNotFound, apiErr.ErrType)
	// Nothing was created or stored
	assert.Empty(t, f.factory.uow.kbRepo.kbs)
	assert.Empty(t, f.factory.uow.chunkRepo.chunks)
}

func TestIngestionService_AutoCreateCreatesExactlyOneKb(t *testing.T) {
	f := newIngestionFixture()
	f.llm.responses = []string{`{"doc_type":"Report","category":"Finance","status":"Final","title":"Q3 Report"}`}

	res, err := f.service.Upload(context.Background(), uploadReq("New KB", "report.txt", "quarterly numbers", nil))
	require.NoError(t, err)

	assert.True(t, res.KbCreated)
	assert.Equal(t, "new_kb", res.KbName)
	assert.Equal(t, "kb_new_kb", res.CollectionName)
	assert.Len(t, f.factory.uow.kbRepo.kbs, 1)
}

func TestIngestionService_BadBase64IsValidationError(t *testing.T) {
	f := newIngestionFixture()

	_, err := f.service.Upload(context.Background(), &dto.UploadDocumentRequest{
		KbName:   "acme",
		FileName: "a.txt",
		Content:  "not valid base64!!!",
	})

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeValidation, apiErr.ErrType)
	// The auto-create path must not leave a knowledge base behind
	assert.Empty(t, f.factory.uow.kbRepo.kbs)
}

func TestIngestionService_UnsupportedFormat(t *testing.T) {
	f := newIngestionFixture()
	f.extractor.err = &extract.ErrUnsupportedFormat{ContentType: "image/png"}

	_, err := f.service.Upload(context.Background(), uploadReq("acme", "pic.png", "binary", nil))

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeUnsupportedFormat, apiErr.ErrType)
	assert.Empty(t, f.factory.uow.chunkRepo.chunks)
	// Extraction failed before anything was stored, so no knowledge base
	// may exist either
	assert.Empty(t, f.factory.uow.kbRepo.kbs)
}

func TestIngestionService_MetadataFallbackOnLLMFailure(t *testing.T) {
	f := newIngestionFixture()
	f.llm.fail = true

	res, err := f.service.Upload(context.Background(), uploadReq("acme", "doc.txt", "some content", nil))
	require.NoError(t, err)

	// Upload succeeds with default metadata
	assert.Equal(t, constant.DefaultDocType, res.Metadata.DocType)
	assert.Equal(t, constant.DefaultTitle, res.Metadata.Title)
	assert.Equal(t, constant.DescriptionPlaceholder, res.Description)
	assert.Equal(t, 1, res.ChunksStored)
	// No meaningful description means no router entry
	assert.Empty(t, f.factory.uow.routerRepo.entries)
}

func TestIngestionService_MetadataFallbackOnMalformedJSON(t *testing.T) {
	f := newIngestionFixture()
	f.llm.responses = []string{"I think this document is about finance."}

	res, err := f.service.Upload(context.Background(), uploadReq("acme", "doc.txt", "content", nil))
	require.NoError(t, err)
	assert.Equal(t, constant.DescriptionPlaceholder, res.Description)
}

func TestIngestionService_FencedMetadataResponseIsParsed(t *testing.T) {
	f := newIngestionFixture()
	f.llm.responses = []string{"```json\n{\"doc_type\":\"Contract\",\"category\":\"Legal\",\"status\":\"Final\",\"title\":\"NDA\"}\n```"}

	res, err := f.service.Upload(context.Background(), uploadReq("acme", "nda.txt", "contract text", nil))
	require.NoError(t, err)

	assert.Equal(t, "Contract", res.Metadata.DocType)
	assert.Equal(t, "[Contract] NDA - Category: Legal (Final)", res.Description)
}

func TestIngestionService_DescriptionAndRouterEntryUpdated(t *testing.T) {
	f := newIngestionFixture()
	f.llm.responses = []string{`{"doc_type":"Manual","category":"Engineering","status":"Final","title":"Pump Manual"}`}

	res, err := f.service.Upload(context.Background(), uploadReq("acme", "manual.txt", "how to operate the pump", nil))
	require.NoError(t, err)

	expected := "[Manual] Pump Manual - Category: Engineering (Final)"
	assert.Equal(t, expected, res.Description)
	assert.Equal(t, expected, f.factory.uow.kbRepo.kbs["kb_acme"].Description)

	entry, ok := f.factory.uow.routerRepo.entries["kb_acme"]
	require.True(t, ok)
	assert.Equal(t, expected, entry.Description)
}

func TestIngestionService_ChunksCarryPageNumbers(t *testing.T) {
	f := newIngestionFixture()
	f.llm.responses = []string{`{"doc_type":"Report","category":"Finance","status":"Final","title":"Report"}`}
	f.extractor.pages = []extract.Page{
		{Number: 1, Text: strings.Repeat("page one text. ", 100)}, // 1500 runes, 2 chunks
		{Number: 2, Text: "short page two"},
	}

	res, err := f.service.Upload(context.Background(), uploadReq("acme", "r.pdf", "ignored", nil))
	require.NoError(t, err)

	assert.Equal(t, 2, res.PageCount)
	assert.Equal(t, 3, res.ChunksStored)

	// Whole document lands in one batch write
	assert.Equal(t, 1, f.factory.uow.chunkRepo.bulkCalls)

	chunks := f.factory.uow.chunkRepo.chunks
	require.Len(t, chunks, 3)
	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, 1, chunks[1].PageNumber)
	assert.Equal(t, 2, chunks[2].PageNumber)
	for _, c := range chunks {
		assert.Equal(t, "kb_acme", c.CollectionName)
		assert.Equal(t, "r.pdf", c.FileName)
		assert.NotEmpty(t, c.EmbeddingValue)
	}
}

func TestIngestionService_EmbeddingFailureStoresNothing(t *testing.T) {
	f := newIngestionFixture()
	f.llm.fail = true // metadata falls back, not the failure under test
	f.embedder.fail = true

	_, err := f.service.Upload(context.Background(), uploadReq("acme", "doc.txt", "content", nil))

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeEmbeddingService, apiErr.ErrType)
	assert.Empty(t, f.factory.uow.chunkRepo.chunks)
	assert.Empty(t, f.factory.uow.kbRepo.kbs)
}

func TestIngestionService_EmptyDocumentRejected(t *testing.T) {
	f := newIngestionFixture()
	f.extractor.pages = []extract.Page{}

	_, err := f.service.Upload(context.Background(), uploadReq("acme", "empty.txt", "", nil))

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeValidation, apiErr.ErrType)
}

func TestIngestionService_PublishesAuditEvent(t *testing.T) {
	f := newIngestionFixture()
	f.llm.responses = []string{`{"doc_type":"Report","category":"Finance","status":"Final","title":"R"}`}

	_, err := f.service.Upload(context.Background(), uploadReq("acme", "r.txt", "numbers", nil))
	require.NoError(t, err)

	require.Len(t, f.publisher.payloads, 1)
	var event dto.DocumentIngestedEvent
	require.NoError(t, json.Unmarshal(f.publisher.payloads[0], &event))
	assert.Equal(t, "acme", event.KbName)
	assert.Equal(t, "r.txt", event.FileName)
	assert.Equal(t, 1, event.ChunkCount)
}

func TestIngestionService_ExtraMetadataPassthrough(t *testing.T) {
	f := newIngestionFixture()
	f.llm.fail = true

	req := uploadReq("acme", "doc.txt", "content", nil)
	req.ExtraMetadata = map[string]interface{}{"department": "legal"}

	_, err := f.service.Upload(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, f.factory.uow.chunkRepo.chunks)
	assert.Equal(t, "legal", f.factory.uow.chunkRepo.chunks[0].Extra["department"])
}
