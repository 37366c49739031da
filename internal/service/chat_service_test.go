package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"multikb-rag-be/internal/constant"
	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	service       IChatService
	factory       *fakeUowFactory
	llm           *fakeLLM
	embedder      *fakeEmbedder
	conversations *memory.ConversationRepository
}

func newChatFixture() *chatFixture {
	factory := newFakeUowFactory()
	embedder := &fakeEmbedder{}
	llmFake := &fakeLLM{}
	log := logger.NewNopLogger()
	router := NewRouterService(factory, embedder, 0.4, log)
	conversations := memory.NewConversationRepository(20)
	svc := NewChatService(factory, router, conversations, embedder, llmFake, 5, log)

	return &chatFixture{
		service:       svc,
		factory:       factory,
		llm:           llmFake,
		embedder:      embedder,
		conversations: conversations,
	}
}

func (f *chatFixture) addKb(name string) {
	f.factory.uow.kbRepo.kbs["kb_"+name] = &entity.KnowledgeBase{
		Id:             uuid.New(),
		Name:           name,
		CollectionName: "kb_" + name,
		CreatedAt:      time.Now(),
	}
}

func (f *chatFixture) stubSearchResults(chunks ...*entity.ScoredDocumentChunk) {
	f.factory.uow.chunkRepo.searchResults = chunks
}

func scoredChunk(text, fileName string, page int, similarity float64) *entity.ScoredDocumentChunk {
	return &entity.ScoredDocumentChunk{
		Chunk: &entity.DocumentChunk{
			Document:   text,
			FileName:   fileName,
			PageNumber: page,
		},
		Similarity: similarity,
	}
}

func TestChatService_MissingKbLeavesMemoryUntouched(t *testing.T) {
	f := newChatFixture()

	_, err := f.service.ChatWithKb(context.Background(), "ghost", "hi", "s1", 0)

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeNotFound, apiErr.ErrType)
	assert.Empty(t, f.conversations.History("ghost", "s1"))
}

func TestChatService_AnswerWithSources(t *testing.T) {
	f := newChatFixture()
	f.addKb("acme")
	f.stubSearchResults(
		scoredChunk("The warranty period is 24 months.", "contract.pdf", 2, 0.91),
		scoredChunk(strings.Repeat("x", 300), "contract.pdf", 5, 0.72),
	)
	f.llm.responses = []string{"The warranty lasts 24 months."}

	res, err := f.service.ChatWithKb(context.Background(), "acme", "how long is the warranty?", "s1", 0)
	require.NoError(t, err)

	assert.Equal(t, "acme", res.KbName)
	assert.Equal(t, "The warranty lasts 24 months.", res.Answer)
	require.Len(t, res.Sources, 2)

	// Citations keep filename, page number and score
	assert.Equal(t, "contract.pdf", res.Sources[0].FileName)
	assert.Equal(t, 2, res.Sources[0].PageNumber)
	assert.InDelta(t, 0.91, res.Sources[0].Similarity, 1e-9)

	// Long chunk text is truncated in the citation
	assert.True(t, len([]rune(res.Sources[1].Snippet)) <= 203)
	assert.True(t, strings.HasSuffix(res.Sources[1].Snippet, "..."))

	// The exchange landed in session memory
	history := f.conversations.History("acme", "s1")
	require.Len(t, history, 1)
	assert.Equal(t, "how long is the warranty?", history[0].Query)
}

func TestChatService_HistoryIsCarriedIntoPrompt(t *testing.T) {
	f := newChatFixture()
	f.addKb("acme")
	f.conversations.Append("acme", "s1", entity.ConversationTurn{
		Query:  "first question",
		Answer: "first answer",
	})
	f.llm.responses = []string{"second answer"}

	_, err := f.service.ChatWithKb(context.Background(), "acme", "follow-up", "s1", 0)
	require.NoError(t, err)

	require.Len(t, f.llm.histories, 1)
	messages := f.llm.histories[0]
	require.Len(t, messages, 3)
	assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, "first question", messages[0].Content)
	assert.Equal(t, constant.ChatMessageRoleModel, messages[1].Role)
	assert.Equal(t, "first answer", messages[1].Content)
	assert.Contains(t, messages[2].Content, "follow-up")
}

func TestChatService_SessionsAreIndependentPerKb(t *testing.T) {
	f := newChatFixture()
	f.addKb("acme")
	f.addKb("globex")
	f.llm.responses = []string{"a1", "a2"}

	_, err := f.service.ChatWithKb(context.Background(), "acme", "q-acme", "shared", 0)
	require.NoError(t, err)
	_, err = f.service.ChatWithKb(context.Background(), "globex", "q-globex", "shared", 0)
	require.NoError(t, err)

	require.Len(t, f.conversations.History("acme", "shared"), 1)
	require.Len(t, f.conversations.History("globex", "shared"), 1)
	assert.Equal(t, "q-acme", f.conversations.History("acme", "shared")[0].Query)
}

func TestChatService_EmbeddingFailure(t *testing.T) {
	f := newChatFixture()
	f.addKb("acme")
	f.embedder.fail = true

	_, err := f.service.ChatWithKb(context.Background(), "acme", "q", "s1", 0)

	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeEmbeddingService, apiErr.ErrType)
	assert.Empty(t, f.conversations.History("acme", "s1"))
}

func TestChatService_GlobalUnroutedListsKbs(t *testing.T) {
	f := newChatFixture()
	f.addKb("acme")
	f.addKb("globex")
	// No router entries, so routing always misses

	res, err := f.service.ChatGlobal(context.Background(), "what is the weather?", "s1", 0)
	require.NoError(t, err)

	assert.False(t, res.Routed)
	assert.Empty(t, res.Answer)
	assert.NotEmpty(t, res.Message)
	assert.ElementsMatch(t, []string{"acme", "globex"}, res.AvailableKbs)
}

func TestChatService_GlobalRoutedDelegates(t *testing.T) {
	f := newChatFixture()
	f.addKb("acme")
	f.factory.uow.routerRepo.searchResults = []*entity.ScoredRouterEntry{
		{Entry: &entity.RouterEntry{CollectionName: "kb_acme", KbName: "acme"}, Similarity: 0.77},
	}
	f.stubSearchResults(scoredChunk("relevant text", "doc.txt", 1, 0.8))
	f.llm.responses = []string{"routed answer"}

	res, err := f.service.ChatGlobal(context.Background(), "acme related question", "s1", 0)
	require.NoError(t, err)

	assert.True(t, res.Routed)
	assert.Equal(t, "routed answer", res.Answer)
	require.NotNil(t, res.Routing)
	assert.Equal(t, constant.RoutingMethodSemantic, res.Routing.Method)
	assert.Equal(t, "acme", res.Routing.KbName)
	assert.InDelta(t, 0.77, res.Routing.Confidence, 1e-9)

	// The delegated chat recorded the turn under the routed kb
	assert.Len(t, f.conversations.History("acme", "s1"), 1)
}

func TestChatService_ClearHistory(t *testing.T) {
	f := newChatFixture()
	f.addKb("acme")
	f.conversations.Append("acme", "s1", entity.ConversationTurn{Query: "q", Answer: "a"})

	res, err := f.service.ClearHistory(context.Background(), "acme", "s1")
	require.NoError(t, err)
	assert.True(t, res.Cleared)
	assert.Empty(t, f.conversations.History("acme", "s1"))

	// Clearing a session that never existed still succeeds
	res, err = f.service.ClearHistory(context.Background(), "acme", "never")
	require.NoError(t, err)
	assert.False(t, res.Cleared)
}

func TestChatService_ClearHistoryMissingKb(t *testing.T) {
	f := newChatFixture()

	_, err := f.service.ClearHistory(context.Background(), "ghost", "s1")
	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, serverutils.ErrTypeNotFound, apiErr.ErrType)
}
