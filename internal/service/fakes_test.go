package service

import (
	"context"
	"errors"
	"fmt"

	"multikb-rag-be/internal/entity"
	"multikb-rag-be/internal/model"
	"multikb-rag-be/internal/repository/contract"
	"multikb-rag-be/internal/repository/unitofwork"
	"multikb-rag-be/pkg/embedding"
	"multikb-rag-be/pkg/extract"
	"multikb-rag-be/pkg/llm"
)

// In-memory fakes implementing the repository contracts and provider
// interfaces, shared across the service tests.

type fakeKbRepo struct {
	kbs       map[string]*entity.KnowledgeBase
	failReads bool
}

func newFakeKbRepo() *fakeKbRepo {
	return &fakeKbRepo{kbs: make(map[string]*entity.KnowledgeBase)}
}

func (r *fakeKbRepo) Create(ctx context.Context, kb *entity.KnowledgeBase) error {
	if _, ok := r.kbs[kb.CollectionName]; ok {
		return errors.New("duplicate key")
	}
	clone := *kb
	r.kbs[kb.CollectionName] = &clone
	return nil
}

func (r *fakeKbRepo) CreateIfAbsent(ctx context.Context, kb *entity.KnowledgeBase) (bool, error) {
	if _, ok := r.kbs[kb.CollectionName]; ok {
		return false, nil
	}
	clone := *kb
	r.kbs[kb.CollectionName] = &clone
	return true, nil
}

func (r *fakeKbRepo) FindByCollectionName(ctx context.Context, collectionName string) (*entity.KnowledgeBase, error) {
	if r.failReads {
		return nil, errors.New("db down")
	}
	kb, ok := r.kbs[collectionName]
	if !ok {
		return nil, nil
	}
	clone := *kb
	return &clone, nil
}

func (r *fakeKbRepo) FindAll(ctx context.Context) ([]*entity.KnowledgeBase, error) {
	if r.failReads {
		return nil, errors.New("db down")
	}
	out := make([]*entity.KnowledgeBase, 0, len(r.kbs))
	for _, kb := range r.kbs {
		clone := *kb
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeKbRepo) ExistsByCollectionName(ctx context.Context, collectionName string) (bool, error) {
	if r.failReads {
		return false, errors.New("db down")
	}
	_, ok := r.kbs[collectionName]
	return ok, nil
}

func (r *fakeKbRepo) UpdateDescription(ctx context.Context, collectionName string, description string) error {
	if kb, ok := r.kbs[collectionName]; ok {
		kb.Description = description
	}
	return nil
}

func (r *fakeKbRepo) DeleteByCollectionName(ctx context.Context, collectionName string) error {
	delete(r.kbs, collectionName)
	return nil
}

type fakeChunkRepo struct {
	chunks        []*entity.DocumentChunk
	bulkCalls     int
	failWrites    bool
	searchResults []*entity.ScoredDocumentChunk
	failSearch    bool
}

func (r *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if r.failWrites {
		return errors.New("write failed")
	}
	r.bulkCalls++
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *fakeChunkRepo) CountByCollection(ctx context.Context, collectionName string) (int64, error) {
	var count int64
	for _, c := range r.chunks {
		if c.CollectionName == collectionName {
			count++
		}
	}
	return count, nil
}

func (r *fakeChunkRepo) DeleteByCollection(ctx context.Context, collectionName string) error {
	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.CollectionName != collectionName {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, collectionName string, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error) {
	if r.failSearch {
		return nil, errors.New("search failed")
	}
	return r.searchResults, nil
}

type fakeRouterRepo struct {
	entries       map[string]*entity.RouterEntry
	searchResults []*entity.ScoredRouterEntry
}

func newFakeRouterRepo() *fakeRouterRepo {
	return &fakeRouterRepo{entries: make(map[string]*entity.RouterEntry)}
}

func (r *fakeRouterRepo) Upsert(ctx context.Context, entry *entity.RouterEntry) error {
	clone := *entry
	r.entries[entry.CollectionName] = &clone
	return nil
}

func (r *fakeRouterRepo) FindAll(ctx context.Context) ([]*entity.RouterEntry, error) {
	out := make([]*entity.RouterEntry, 0, len(r.entries))
	for _, e := range r.entries {
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeRouterRepo) DeleteByCollection(ctx context.Context, collectionName string) error {
	delete(r.entries, collectionName)
	return nil
}

func (r *fakeRouterRepo) SearchBest(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredRouterEntry, error) {
	return r.searchResults, nil
}

type fakeSystemLogRepo struct {
	logs []*model.SystemLog
}

func (r *fakeSystemLogRepo) Create(ctx context.Context, log *model.SystemLog) error {
	r.logs = append(r.logs, log)
	return nil
}

type fakeUow struct {
	kbRepo     *fakeKbRepo
	chunkRepo  *fakeChunkRepo
	routerRepo *fakeRouterRepo
	logRepo    *fakeSystemLogRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) KnowledgeBaseRepository() contract.KnowledgeBaseRepository {
	return u.kbRepo
}
func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.chunkRepo
}
func (u *fakeUow) RouterEntryRepository() contract.RouterEntryRepository {
	return u.routerRepo
}
func (u *fakeUow) SystemLogRepository() contract.SystemLogRepository {
	return u.logRepo
}

type fakeUowFactory struct {
	uow *fakeUow
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{
		uow: &fakeUow{
			kbRepo:     newFakeKbRepo(),
			chunkRepo:  &fakeChunkRepo{},
			routerRepo: newFakeRouterRepo(),
			logRepo:    &fakeSystemLogRepo{},
		},
	}
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeEmbedder struct {
	calls []string
	fail  bool
}

func (e *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if e.fail {
		return nil, errors.New("embedding service unavailable")
	}
	e.calls = append(e.calls, text)
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: []float32{float32(len(text)), 1, 0},
		},
	}, nil
}

type fakeLLM struct {
	responses []string
	histories [][]llm.Message
	fail      bool
}

func (l *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if l.fail {
		return "", errors.New("llm unavailable")
	}
	l.histories = append(l.histories, history)
	if len(l.responses) == 0 {
		return "default answer", nil
	}
	res := l.responses[0]
	l.responses = l.responses[1:]
	return res, nil
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return l.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakeExtractor struct {
	pages []extract.Page
	err   error
}

func (e *fakeExtractor) Extract(ctx context.Context, fileBytes []byte, contentType string) ([]extract.Page, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.pages != nil {
		return e.pages, nil
	}
	return []extract.Page{{Number: 1, Text: string(fileBytes)}}, nil
}

type fakePublisher struct {
	payloads [][]byte
	fail     bool
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	if p.fail {
		return fmt.Errorf("bus down")
	}
	p.payloads = append(p.payloads, payload)
	return nil
}
