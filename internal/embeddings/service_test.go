package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/shopchat/internal/config"
)

func TestNewService(t *testing.T) {
	t.Run("requires model", func(t *testing.T) {
		_, err := NewService(config.EmbeddingsConfig{})
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("constructs without api key", func(t *testing.T) {
		svc, err := NewService(config.EmbeddingsConfig{
			Model:   "text-embedding-3-small",
			BaseURL: "http://localhost:8080/v1",
		})
		require.NoError(t, err)
		assert.Equal(t, "text-embedding-3-small", svc.Model())
	})
}

func TestEmbedDocumentsRejectsEmptyInput(t *testing.T) {
	svc, err := NewService(config.EmbeddingsConfig{
		Model:   "text-embedding-3-small",
		BaseURL: "http://localhost:8080/v1",
	})
	require.NoError(t, err)

	_, err = svc.EmbedDocuments(context.Background(), nil)
	assert.Error(t, err)
}
