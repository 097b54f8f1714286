package vectorstore

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns a text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder produces embeddings through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewOpenAIEmbedder creates an embedder using the provider's native
// 1536-dimension model. dimension is the expected vector length; a
// mismatched response is rejected before it can reach the index.
func NewOpenAIEmbedder(apiKey string, dimension int) *OpenAIEmbedder {
	return newOpenAIEmbedder(openai.NewClient(apiKey), dimension)
}

func newOpenAIEmbedder(client *openai.Client, dimension int) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:    client,
		model:     openai.AdaEmbeddingV2,
		dimension: dimension,
	}
}

// Embed implements Embedder.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	vector := resp.Data[0].Embedding
	if e.dimension > 0 && len(vector) != e.dimension {
		return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(vector), e.dimension)
	}

	return vector, nil
}
