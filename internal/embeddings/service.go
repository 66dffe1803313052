// Package embeddings provides embedding generation via langchaingo.
//
// It wraps langchaingo's OpenAI embedding client so the rest of the
// code only sees the vectorstore.Embedder interface. Pointing BaseURL
// at an OpenAI-compatible server (TEI, vLLM, a gateway) works too.
package embeddings

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/fyrsmithlabs/shopchat/internal/config"
	"github.com/fyrsmithlabs/shopchat/internal/vectorstore"
)

// Service generates vector embeddings for review documents and queries.
type Service struct {
	embedder *embeddings.EmbedderImpl
	model    string
}

// NewService creates an embedding service from configuration.
func NewService(cfg config.EmbeddingsConfig) (*Service, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: embedding model is required", config.ErrInvalidConfig)
	}

	// langchaingo requires a token even for keyless local servers.
	apiKey := "placeholder"
	if cfg.APIKey.IsSet() {
		apiKey = cfg.APIKey.Value()
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	return &Service{embedder: embedder, model: cfg.Model}, nil
}

// Model returns the configured embedding model identifier.
func (s *Service) Model() string {
	return s.model
}

// EmbedDocuments generates one embedding per input text, in order.
func (s *Service) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding documents: %w", err)
	}
	return vectors, nil
}

// EmbedQuery generates an embedding for a single query string.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vector, nil
}

// Ensure Service satisfies the store's embedder contract.
var _ vectorstore.Embedder = (*Service)(nil)
