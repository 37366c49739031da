package embedding

import "context"

// Task types understood by Gemini; other providers ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// GenerateBatch embeds every text up front so callers can stage a full
// document before touching the store. Fails on the first bad text.
func GenerateBatch(ctx context.Context, provider EmbeddingProvider, texts []string, taskType string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := provider.Generate(ctx, text, taskType)
		if err != nil {
			return nil, err
		}
		vectors[i] = res.Embedding.Values
	}
	return vectors, nil
}
